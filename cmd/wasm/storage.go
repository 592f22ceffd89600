//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/inamate/shapecut/internal/store"
)

// localStorage is a store.KV over window.localStorage.
type localStorage struct {
	ls js.Value
}

func newLocalStorage() *localStorage {
	return &localStorage{ls: js.Global().Get("localStorage")}
}

func (l *localStorage) Get(_ context.Context, key string) ([]byte, error) {
	v := l.ls.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return nil, store.ErrNotFound
	}
	return []byte(v.String()), nil
}

func (l *localStorage) Put(_ context.Context, key string, value []byte) (err error) {
	// setItem throws when the quota is exceeded.
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	l.ls.Call("setItem", key, string(value))
	return nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	l.ls.Call("removeItem", key)
	return nil
}
