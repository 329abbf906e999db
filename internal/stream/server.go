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

package stream

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"

	"github.com/Merovius/fbdev"
)

// Server serves a Source over HTTP.
//
//	GET /info                        screen information as JSON
//	GET /raw?encoding=rle&frames=N   frame stream
type Server struct {
	// mu serializes access to src, which is shared by all requests.
	mu  sync.Mutex
	src Source
	fps float64
	enc Encoding
	log zerolog.Logger
}

// NewServer returns a Server for src. fps limits the number of frames per
// second sent to each client; zero means no limit. enc is used for requests
// that do not ask for an encoding.
func NewServer(src Source, fps float64, enc Encoding, log zerolog.Logger) *Server {
	return &Server{src: src, fps: fps, enc: enc, log: log}
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Get("/info", s.serveInfo)
	r.Get("/raw", s.serveRaw)
	return r
}

// Info is the response of /info.
type Info struct {
	Name string              `json:"name"`
	Len  int                 `json:"len"`
	Fix  fbdev.FixScreeninfo `json:"fix"`
	Var  fbdev.VarScreeninfo `json:"var"`
}

func (s *Server) serveInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	info := Info{
		Name: s.src.FixScreeninfo().Name(),
		Len:  s.src.Len(),
		Fix:  s.src.FixScreeninfo(),
		Var:  s.src.VarScreeninfo(),
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("writing info")
	}
}

func (s *Server) serveRaw(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error().Msg("not a flusher")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	enc := s.enc
	if v := r.URL.Query().Get("encoding"); v != "" {
		var err error
		if enc, err = ParseEncoding(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	frames := 0
	if v := r.URL.Query().Get("frames"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, fmt.Sprintf("invalid frame count %q", v), http.StatusBadRequest)
			return
		}
		frames = n
	}

	s.mu.Lock()
	hdr := headerFor(s.src, enc)
	buf := make([]byte, s.src.Len())
	s.mu.Unlock()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	mpw := multipart.NewWriter(w)
	if err := mpw.SetBoundary(boundary); err != nil {
		log.Error().Err(err).Msg("setting boundary")
		return
	}
	phdr := make(textproto.MIMEHeader)
	phdr.Add("Content-Type", partType)

	log.Debug().Interface("header", hdr).Msg("writing header")
	part, err := mpw.CreatePart(phdr)
	if err != nil {
		log.Debug().Err(err).Msg("creating header part")
		return
	}
	if err := binary.Write(part, binary.BigEndian, &hdr); err != nil {
		log.Debug().Err(err).Msg("writing header")
		return
	}
	flusher.Flush()

	limit := rate.Inf
	if s.fps > 0 {
		limit = rate.Limit(s.fps)
	}
	lim := rate.NewLimiter(limit, 1)
	ctx := r.Context()
	for i := 0; frames == 0 || i < frames; i++ {
		if err := lim.Wait(ctx); err != nil {
			log.Debug().Err(err).Msg("stream canceled")
			return
		}
		if err := ctx.Err(); err != nil {
			log.Debug().Err(err).Msg("stream canceled")
			return
		}

		s.mu.Lock()
		err := s.src.ReadFrame(buf)
		s.mu.Unlock()
		if err != nil {
			log.Error().Err(err).Msg("reading frame")
			return
		}

		part, err := mpw.CreatePart(phdr)
		if err != nil {
			log.Debug().Err(err).Msg("creating frame part")
			return
		}
		if enc == RLE {
			_, err = newWriter(part).Write(buf)
		} else {
			_, err = part.Write(buf)
		}
		if err != nil {
			log.Debug().Err(err).Msg("writing frame")
			return
		}
		flusher.Flush()
	}
	if err := mpw.Close(); err != nil {
		log.Debug().Err(err).Msg("closing stream")
	}
}
