package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	admin "github.com/mutablelogic/go-filebox/pkg/admin"
	config "github.com/mutablelogic/go-filebox/pkg/config"
	handler "github.com/mutablelogic/go-filebox/pkg/handler"
	listener "github.com/mutablelogic/go-filebox/pkg/listener"
	router "github.com/mutablelogic/go-filebox/pkg/router"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	version "github.com/mutablelogic/go-filebox/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	Run RunServerCommand `cmd:"" name:"run" help:"Run the file server." group:"SERVER" default:"1"`
}

type RunServerCommand struct{}

// supervisor wires listener.Listener to the admin console's Supervisor
// interface, tracking run/stop state across .start/.restart/.shutdown.
type supervisor struct {
	mu        sync.Mutex
	globals   *Globals
	settings  config.Settings
	registry  *router.Registry
	store     *store.Store
	ln        *listener.Listener
	running   bool
	runCancel context.CancelFunc
	serveDone chan struct{}
}

func (s *supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("already running")
	}

	addr := net.JoinHostPort(s.settings.Host, strconv.Itoa(s.settings.Port))
	ln, err := listener.New(addr, s.registry, s.settings.HTTPVersion, s.settings.ServerName, s.globals.logger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.ln = ln
	s.running = true
	s.runCancel = cancel
	s.serveDone = make(chan struct{})

	go func() {
		defer close(s.serveDone)
		if err := ln.Serve(runCtx); err != nil {
			s.globals.logger.Printf(ctx, "ERROR listener: %v", err)
		}
	}()

	s.globals.logger.Printf(ctx, "%s listening on %s", version.Summary("filebox"), ln.Addr())
	return nil
}

func (s *supervisor) Restart(ctx context.Context) error {
	if err := s.Shutdown(ctx); err != nil {
		return err
	}
	return s.Start(ctx)
}

func (s *supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel := s.runCancel
	done := s.serveDone
	s.mu.Unlock()

	// Cancelling the run context closes the listener's socket, which
	// unblocks Accept and starts the drain sequence inside Serve.
	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return nil
}

func (s *supervisor) Status() admin.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := admin.Status{Running: s.running, Version: version.Summary("filebox")}
	if s.ln != nil {
		st.ActiveConnections = s.ln.ActiveConnections()
		st.Addr = s.ln.Addr().String()
	}
	if s.store != nil {
		st.StoredSize = s.store.TotalSize()
	}
	return st
}

///////////////////////////////////////////////////////////////////////////////
// COMMAND

func (cmd *RunServerCommand) Run(g *Globals) error {
	settings, err := config.Load(g.Settings)
	if err != nil {
		return err
	}

	fileStore, err := store.New(g.ctx,
		store.WithDir(settings.FileDir),
		store.WithMetadataPath(settings.MetadataPath),
		store.WithMetadataKeys(settings.MetadataIDKey, settings.MetadataDataKey),
		store.WithLogger(g.logger),
		store.WithTracer(g.tracer),
	)
	if err != nil {
		return err
	}

	templates, err := router.LoadTemplateFile(settings.TemplatePath)
	if err != nil {
		return err
	}

	handlers := map[string]router.Handler{
		"download":    &handler.Download{Store: fileStore},
		"view":        &handler.View{Store: fileStore},
		"upload":      &handler.Upload{Store: fileStore},
		"update-name": &handler.Rename{Store: fileStore},
		"override":    &handler.Override{Store: fileStore},
		"delete":      &handler.Delete{Store: fileStore},
	}

	const filesRoot = "/files"
	ep, err := router.Build(filesRoot, templates[filesRoot], handlers)
	if err != nil {
		return err
	}
	ep.Close = func(ctx context.Context) error { return fileStore.Flush(ctx) }

	registry := router.NewRegistry()
	registry.Register(ep)

	sup := &supervisor{globals: g, settings: settings, registry: registry, store: fileStore}
	if err := sup.Start(g.ctx); err != nil {
		return err
	}

	log := admin.NewRingBuffer(1000)
	if err := admin.RunStdin(g.ctx, sup, log); err != nil {
		return err
	}

	return sup.Shutdown(context.Background())
}
