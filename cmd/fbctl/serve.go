// Copyright 2018 Axel Wagner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/config"
	"github.com/Merovius/fbdev/internal/stream"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		listen   string
		fps      float64
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the framebuffer over HTTP",
		Long: `serve the framebuffer over HTTP

  GET /info    screen information as JSON
  GET /raw     multipart stream of raw frames (?encoding=rle, ?frames=N)

Requests without an encoding get the configured one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.Serve.Listen = listen
			}
			if cmd.Flags().Changed("fps") {
				a.cfg.Serve.FPS = fps
			}
			if cmd.Flags().Changed("encoding") {
				a.cfg.Serve.Encoding = encoding
			}
			if err := config.Validate(a.cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				return a.serve(ctx, fb)
			})
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default from config, :1234)")
	cmd.Flags().Float64Var(&fps, "fps", 0, "maximum frames per second and client, 0 for no limit (default from config)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "default stream encoding, raw or rle (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context, fb *fbdev.Framebuffer) error {
	l, err := net.Listen("tcp", a.cfg.Serve.Listen)
	if err != nil {
		return err
	}
	return a.serveOn(ctx, l, fb)
}

// serveOn serves fb on l until ctx is done.
func (a *app) serveOn(ctx context.Context, l net.Listener, fb *fbdev.Framebuffer) error {
	enc, err := stream.ParseEncoding(a.cfg.Serve.Encoding)
	if err != nil {
		l.Close()
		return err
	}
	srv := &http.Server{
		Handler:     stream.NewServer(fb, a.cfg.Serve.FPS, enc, log.Logger).Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	log.Info().Str("addr", l.Addr().String()).Str("device", a.cfg.Device).Msg("serving framebuffer")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return srv.Close()
		}
		return nil
	})
	return g.Wait()
}
