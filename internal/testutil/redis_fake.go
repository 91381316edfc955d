package testutil

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FakeRedis answers GET, SET, DEL and PING from memory through a go-redis hook, so tests get a
// real *redis.Client that never opens a connection.
type FakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	calls  map[string]int
	client *redis.Client
}

// NewFakeRedis creates a fake and its client
func NewFakeRedis() *FakeRedis {
	f := &FakeRedis{
		values: make(map[string]string),
		calls:  make(map[string]int),
	}
	f.client = redis.NewClient(&redis.Options{Addr: "fake-redis:6379"})
	f.client.AddHook(f)
	return f
}

// Client returns the hooked client
func (f *FakeRedis) Client() *redis.Client {
	return f.client
}

// Set stores a raw value
func (f *FakeRedis) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Value returns the raw value under key
func (f *FakeRedis) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// FailWith makes every subsequent command return err. Pass nil to recover.
func (f *FakeRedis) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns how many times the command name (lower case) was processed
func (f *FakeRedis) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// DialHook refuses to dial; every command is answered in ProcessHook
func (f *FakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("fake redis does not dial %s", addr)
	}
}

// ProcessHook serves commands from the in-memory map
func (f *FakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()

		name := strings.ToLower(cmd.Name())
		f.calls[name]++
		if f.err != nil {
			return f.err
		}

		args := cmd.Args()
		switch name {
		case "get":
			value, ok := f.values[fmt.Sprint(args[1])]
			if !ok {
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(value)
		case "set":
			f.values[fmt.Sprint(args[1])] = stringify(args[2])
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "del":
			var removed int64
			for _, key := range args[1:] {
				if _, ok := f.values[fmt.Sprint(key)]; ok {
					delete(f.values, fmt.Sprint(key))
					removed++
				}
			}
			cmd.(*redis.IntCmd).SetVal(removed)
		case "ping":
			cmd.(*redis.StatusCmd).SetVal("PONG")
		default:
			return fmt.Errorf("fake redis: unsupported command %q", name)
		}
		return nil
	}
}

// ProcessPipelineHook rejects pipelines
func (f *FakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return fmt.Errorf("fake redis: pipelines are not supported")
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
