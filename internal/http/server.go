package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"moneybot/internal/ledger"
	"moneybot/internal/log"
	"moneybot/internal/middleware/ratelimit"
	"moneybot/internal/middleware/security"
	"moneybot/internal/middleware/trace"
)

// TextHandler turns one inbound chat line into a reply.
type TextHandler interface {
	HandleText(ctx context.Context, text, userID string) (ledger.Response, error)
}

// Options configure the HTTP surface of the bot.
type Options struct {
	Addr          string
	ChannelSecret string
	// StaticDir holds rendered charts, served under /{StaticPath}/.
	StaticDir  string
	StaticPath string
	// Ready reports whether the store can serve requests. Nil means always ready.
	Ready func(ctx context.Context) error
	// StaticRequestsPerMinute bounds chart downloads per client address.
	StaticRequestsPerMinute int
	// TrustedProxies are CIDRs allowed to set X-Forwarded-For, in addition
	// to loopback and private networks.
	TrustedProxies []string
	Logger                  *log.Logger
}

type Server struct {
	http.Server
	handler  TextHandler
	replier  Replier
	secret   string
	ready    func(ctx context.Context) error
	logger   *log.Logger
	started  time.Time
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	clientIP *security.ClientIP

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(opts Options, handler TextHandler, replier Replier) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	staticPath := "/" + strings.Trim(opts.StaticPath, "/") + "/"
	if staticPath == "//" {
		staticPath = "/" + ledger.DefaultStaticPath + "/"
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		handler:  handler,
		replier:  replier,
		secret:   opts.ChannelSecret,
		ready:    opts.Ready,
		logger:   logger.WithComponent(log.ComponentHTTP),
		started:  time.Now(),
		clientIP: security.NewClientIP(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			Limit:  opts.StaticRequestsPerMinute,
			Period: time.Minute,
		}),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.clientIP.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(logger, s.clientIP.Extract)

	mux.HandleFunc("POST /callback", s.handleCallback)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.StaticDir != "" {
		files := http.StripPrefix(staticPath, http.FileServer(chartDir{http.Dir(opts.StaticDir)}))
		chain := s.limiter.Middleware(s.clientIP.Extract)(security.ChartHeaders(files))
		mux.Handle("GET "+staticPath, chain)
	}

	s.Handler = s.tracer.Middleware(mux)
	return s
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// chartDir serves regular PNG files only, so the directory is never listed.
type chartDir struct {
	fs http.FileSystem
}

func (d chartDir) Open(name string) (http.File, error) {
	if !strings.HasSuffix(name, ".png") || strings.Contains(name, ".tmp.") {
		return nil, errNotFound
	}
	f, err := d.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, errNotFound
	}
	return f, nil
}
