// Resend MCP server sends emails and browses sent history through Model Context Protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/resend-mcp/internal/credential"
	"github.com/hal9000y/resend-mcp/internal/format"
	"github.com/hal9000y/resend-mcp/internal/rservice"
	"github.com/hal9000y/resend-mcp/internal/settings"
	"github.com/hal9000y/resend-mcp/internal/tool"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "HTTP SERVER listen addr")
	settingsFile := flag.String("settings-file", "", "Path to settings.json holding the API key, defaults to the user config dir")
	envFileParam := flag.String("env-file", "", "Path to env file")
	enableStdio := flag.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	logFile := flag.String("log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")
	resendBaseURL := flag.String("resend-base-url", "", "Resend API base URL override")

	flag.Parse()

	persistLogs := setupLogger(enableStdio, logFile)
	defer persistLogs()

	loadEnv(envFileParam)

	ln := mustListen(httpAddr)

	settingsKV := settings.New(mustSettingsPath(settingsFile))
	log.Println("Using settings file", settingsKV.Path())

	keys := credential.NewStore(settingsKV)

	resendSvc := rservice.NewResend(keys, mustResendOptions(resendBaseURL)...)
	resendT := tool.NewServer(resendSvc, keys, format.Converter{})
	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return resendT }, nil)

	mux := http.NewServeMux()
	mux.Handle("/api-key", credential.NewHTTPHandler(keys))
	mux.Handle("/mcp", mcpHTTP)

	srv := &http.Server{
		Handler: mux,
	}

	shutdown := make(chan os.Signal, 1)

	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	if has, err := keys.Has(); err != nil {
		log.Println(fmt.Errorf("keys.Has failed: %w", err))
	} else if !has {
		log.Printf("Resend API key not configured; save one with the save_api_key tool or POST api_key to http://%s/api-key\n", ln.Addr().String())
	}

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	var errStdioCh <-chan error
	if *enableStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(resendT)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Println("Error http server", err)
	case err := <-errStdioCh:
		log.Println("Error stdio", err)
	case <-shutdown:
		log.Println("Shutdown signal received")
	}
}

func serveStdio(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Println("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			err = fmt.Errorf("srv.Run failed: %w", err)
			errStdioCh <- err
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Println("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr *string) net.Listener {
	if httpAddr == nil {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func loadEnv(envFileParam *string) {
	if envFileParam == nil || *envFileParam == "" {
		return
	}

	if err := godotenv.Load(*envFileParam); err != nil {
		panic(fmt.Errorf("godotenv.Load failed: %w", err))
	}
}

func mustSettingsPath(settingsFile *string) string {
	if settingsFile != nil && *settingsFile != "" {
		return *settingsFile
	}

	if p := os.Getenv("RESEND_MCP_SETTINGS_FILE"); p != "" {
		return p
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		panic(fmt.Errorf("os.UserConfigDir failed: %w", err))
	}

	return filepath.Join(dir, "resend-mcp", "settings.json")
}

func mustResendOptions(resendBaseURL *string) []rservice.Option {
	raw := os.Getenv("RESEND_BASE_URL")
	if resendBaseURL != nil && *resendBaseURL != "" {
		raw = *resendBaseURL
	}

	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		panic(fmt.Errorf("url.Parse failed: %w", err))
	}

	log.Println("Using Resend API at", u.String())

	return []rservice.Option{rservice.WithBaseURL(u)}
}

func setupLogger(enableStdio *bool, logFile *string) func() {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if *enableStdio {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stdout)
	}

	return func() {}
}
