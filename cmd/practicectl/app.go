package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ariebrainware/psych-practice/apiclient"
	"github.com/ariebrainware/psych-practice/config"
	"github.com/ariebrainware/psych-practice/tokenstore"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

// session is what every command works with once flags are parsed.
type session struct {
	client *apiclient.Client
	out    io.Writer
	close  func()
}

func newApp() *cli.App {
	var sess *session
	open := func(c *cli.Context) (*session, error) {
		if sess != nil {
			return sess, nil
		}
		s, err := newSession(c)
		if err != nil {
			return nil, err
		}
		sess = s
		return sess, nil
	}

	return &cli.App{
		Name:  "practicectl",
		Usage: "work with the practice API from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "API base URL", EnvVars: []string{"APIBASEURL"}, Value: config.DefaultAPIBaseURL},
			&cli.StringFlag{Name: "token-store", Usage: "where the session token lives: file, redis or memory", EnvVars: []string{"TOKENSTORE"}, Value: "file"},
			&cli.StringFlag{Name: "token-file", Usage: "token file for the file store", EnvVars: []string{"TOKENFILE"}},
			&cli.StringFlag{Name: "profile", Usage: "namespace for the redis token store"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every API request"},
		},
		Commands: commands(open),
		After: func(c *cli.Context) error {
			if sess != nil && sess.close != nil {
				sess.close()
			}
			return nil
		},
	}
}

func newSession(c *cli.Context) (*session, error) {
	level := zerolog.WarnLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	store, closeStore, err := openTokenStore(c)
	if err != nil {
		return nil, err
	}
	client := apiclient.New(c.String("api-url"),
		apiclient.WithTokenStore(store),
		apiclient.WithLogger(log),
	)
	return &session{client: client, out: c.App.Writer, close: closeStore}, nil
}

func openTokenStore(c *cli.Context) (tokenstore.Store, func(), error) {
	switch kind := c.String("token-store"); kind {
	case "memory":
		return tokenstore.NewMemory(), nil, nil
	case "file":
		path := c.String("token-file")
		if path == "" {
			p, err := tokenstore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return tokenstore.NewFile(path), nil, nil
	case "redis":
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		cfg.RedisEnabled = true
		ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
		defer cancel()
		rdb, err := config.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return tokenstore.NewRedis(rdb, c.String("profile")), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", kind)
	}
}

func withTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

func readPassword(c *cli.Context) string {
	if p := c.String("password"); p != "" {
		return p
	}
	return os.Getenv("PRACTICE_PASSWORD")
}
