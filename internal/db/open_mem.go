package db

import "io"

// openMem backs a Store with process memory; nothing survives Close.
func openMem() (*Store, io.Closer, error) {
	m := newMemStore()
	return &Store{KV: m, Reports: m, Tx: m}, nop{}, nil
}

type nop struct{}

func (nop) Close() error { return nil }
