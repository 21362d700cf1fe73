package lspserver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
)

type greetParams struct {
	Name string `json:"name"`
}

func dial(t *testing.T, methods MethodMap) *jsonrpc2.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	server, client := net.Pipe()
	srv := Serve(ctx, server, methods)
	cli := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(client, jsonrpc2.VSCodeObjectCodec{}), jsonrpc2.HandlerWithError(
		func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (interface{}, error) {
			return nil, nil
		},
	))
	t.Cleanup(func() {
		cli.Close()
		srv.Close()
		cancel()
	})
	return cli
}

func TestHandle(t *testing.T) {
	notified := make(chan string, 1)
	cli := dial(t, MethodMap{
		"greet": Handle(func(ctx context.Context, conn jsonrpc2.JSONRPC2, p greetParams) (string, error) {
			if p.Name == "" {
				return "", errors.New("no name")
			}
			return "hello " + p.Name, nil
		}),
		"poke": Handle(func(ctx context.Context, conn jsonrpc2.JSONRPC2, p greetParams) {
			notified <- p.Name
		}),
	})
	ctx := context.Background()

	var got string
	if err := cli.Call(ctx, "greet", greetParams{Name: "grid"}, &got); err != nil {
		t.Fatal(err)
	}
	if got != "hello grid" {
		t.Errorf("got %q", got)
	}

	if err := cli.Call(ctx, "greet", nil, &got); err == nil {
		t.Error("expected the handler error")
	}

	var rpcErr *jsonrpc2.Error
	if err := cli.Call(ctx, "missing", nil, &got); !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("missing method: %v", err)
	}

	if err := cli.Notify(ctx, "poke", greetParams{Name: "slots"}); err != nil {
		t.Fatal(err)
	}
	if name := <-notified; name != "slots" {
		t.Errorf("notification carried %q", name)
	}
}

func TestHandleRejectsBadSignatures(t *testing.T) {
	for name, fn := range map[string]interface{}{
		"not a func":     42,
		"two params":     func(context.Context, jsonrpc2.JSONRPC2) {},
		"one result":     func(context.Context, jsonrpc2.JSONRPC2, greetParams) error { return nil },
		"no context arg": func(string, jsonrpc2.JSONRPC2, greetParams) {},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: accepted", name)
				}
			}()
			Handle(fn)
		}()
	}
}
