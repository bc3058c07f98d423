package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"courseportal/internal/api"
	"courseportal/internal/config"
	rtr "courseportal/internal/router"
	"courseportal/internal/server"
	"courseportal/internal/session"
	"courseportal/internal/web"

	"github.com/golang/glog"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load()
	if err != nil {
		glog.Fatalf("invalid configuration: %v\n", err)
	}

	views, err := web.NewRenderer()
	if err != nil {
		glog.Fatalf("failed to load templates: %v\n", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	sessions := session.NewManager(client, session.NewCookieStore(cfg), cfg.SessionCookieName)
	routes := server.Routes(cfg, sessions, rtr.NewHandler(sessions, views))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	glog.Infof("using API at %s\n", cfg.APIBaseURL)
	if err := server.Start(ctx, cfg, routes); err != nil {
		glog.Fatalf("server error: %v\n", err)
	}
}
