package main

import (
	"context"
	"fmt"
	"hash"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/export"
	"github.com/mdouchement/itemlist/internal/notify"
	"github.com/mdouchement/itemlist/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	dbname          = "itemlist.db"
	defaultTokenTTL = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg    string
	output string
)

func main() {
	c := &coral.Command{
		Use:     "itemlist",
		Short:   "Shared prioritized item list server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	exportCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	exportCmd.Flags().StringVarP(&output, "output", "o", "itemlist.sqlite", "SQLite file to create")
	c.AddCommand(exportCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")
	if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, "could not load configuration")
	}

	return konf, setupLogger(konf)
}

func setupLogger(konf *koanf.Koanf) error {
	if lvl := konf.String("log.level"); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return errors.Wrap(err, "log.level")
		}
		logrus.SetLevel(level)
	}

	if filename := konf.String("log.file"); filename != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		})
	}
	return nil
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

func open(konf *koanf.Koanf, opts ...database.Option) (database.Client, error) {
	opts = append(opts, database.WithCodec(konf.String("database_codec")))
	db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")), opts...)
	return db, errors.Wrap(err, "could not open database")
}

func kdf(l int, k []byte) []byte {
	nhash := func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}

	payload := make([]byte, l)

	kdf := hkdf.New(nhash, k, nil, nil)
	_, err := io.ReadFull(kdf, payload)
	if err != nil {
		panic(err)
	}

	return payload
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormInit(
				dbnameWithPath(konf.String("database_path")),
				database.WithCodec(konf.String("database_codec")),
			)
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormReIndex(
				dbnameWithPath(konf.String("database_path")),
				database.WithCodec(konf.String("database_codec")),
			)
		},
	}

	//
	exportCmd = &coral.Command{
		Use:   "export",
		Short: "Export users and items to a SQLite file",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			db, err := open(konf)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := export.SQLite(context.Background(), db, output)
			if err != nil {
				return err
			}

			fmt.Printf("%d users and %d items exported to %s\n", stats.Users, stats.Items, output)
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			if konf.String("secret_key") == "" {
				return errors.New("secret_key not found")
			}

			debounce := notify.DefaultDelay
			if konf.Exists("watch_debounce") {
				debounce = konf.Duration("watch_debounce")
			}
			hub := notify.NewHub(debounce)
			defer hub.Close()

			db, err := open(konf, database.WithPublisher(hub))
			if err != nil {
				return err
			}
			defer db.Close()

			ttl := konf.Duration("token_ttl")
			if ttl <= 0 {
				ttl = defaultTokenTTL
			}

			engine := server.EchoEngine(server.Controller{
				Version:             version,
				Database:            db,
				NoRegistration:      konf.Bool("no_registration"),
				Notifications:       hub,
				SigningKey:          kdf(32, konf.MustBytes("secret_key")),
				TokenExpirationTime: ttl,
				KeepAlive:           konf.Duration("watch_keepalive"),
			})
			server.PrintRoutes(engine)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			address := konf.String("address")
			network := "tcp"
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				network, address = parts[0], parts[1]
				if _, err := os.Stat(address); err == nil {
					logrus.Infof("Removing existing %s", address)
					os.Remove(address)
				}
				defer os.Remove(address)
			}

			listener, err := net.Listen(network, address)
			if err != nil {
				return errors.Wrap(err, "could not listen")
			}

			logrus.Infof("Server listening on %s", konf.String("address"))
			// The hub is closed first so watch streams do not hold the shutdown.
			return serve(ctx, engine, listener, shutdownTimeout, hub.Close)
		},
	}
)

// serve runs engine on l until ctx is done.
// It only returns once in-flight requests are drained (or timeout is reached),
// so the database can be closed safely afterwards.
func serve(ctx context.Context, engine *echo.Echo, l net.Listener, timeout time.Duration, closing func()) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server")

		if closing != nil {
			closing()
		}

		shutdown, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done <- engine.Shutdown(shutdown)
	}()

	if err := engine.Server.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "could not run server")
	}

	return errors.Wrap(<-done, "could not shutdown server gracefully")
}
