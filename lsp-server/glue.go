package lspserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/sourcegraph/jsonrpc2"
)

type Method func(ctx context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) (interface{}, error)
type MethodMap map[string]Method
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Handle adapts a typed handler to a Method. fn takes a context, the
// connection and the decoded params, and returns nothing for a
// notification or a result and an error for a request.
func Handle(fn interface{}) Method {
	val := reflect.ValueOf(fn)
	typ := val.Type()
	if typ.Kind() != reflect.Func || typ.NumIn() != 3 || typ.In(0) != contextType {
		panic(fmt.Sprintf("lspserver: unsupported handler type %s", typ))
	}
	if n := typ.NumOut(); n != 0 && n != 2 {
		panic(fmt.Sprintf("lspserver: handler %s must return nothing or (result, error)", typ))
	}
	in := typ.In(2)

	return func(ctx context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) (interface{}, error) {
		v := reflect.New(in)
		if len(params) > 0 && string(params) != "null" {
			if err := json.Unmarshal(params, v.Interface()); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
		}
		ret := val.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(conn), v.Elem()})
		if len(ret) == 0 {
			return nil, nil
		}
		if e := ret[1]; !e.IsNil() {
			if err, ok := e.Interface().(error); ok {
				return nil, err
			}
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: fmt.Sprint(e.Interface())}
		}
		return ret[0].Interface(), nil
	}
}

func handler(methods MethodMap) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		m, ok := methods[req.Method]
		if !ok {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + req.Method}
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return m(ctx, conn, params)
	})
}

// Serve answers requests on rwc until the peer disconnects or ctx is done.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, methods MethodMap) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), handler(methods))
}

func StartServer(ctx context.Context, methods MethodMap) {
	<-Serve(ctx, stdrwc{}, methods).DisconnectNotify()
}
