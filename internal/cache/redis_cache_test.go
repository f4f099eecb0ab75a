package cache

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestRedisCacheJSON(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	if err != nil || hit {
		t.Fatalf("miss expected, hit=%v err=%v", hit, err)
	}

	if err := c.SetJSON(ctx, "k", payload{Name: "a", Score: 3}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	hit, err = c.GetJSON(ctx, "k", &got)
	if err != nil || !hit || got != (payload{Name: "a", Score: 3}) {
		t.Fatalf("GetJSON = %+v hit=%v err=%v", got, hit, err)
	}

	mr.FastForward(2 * time.Minute)
	hit, _ = c.GetJSON(ctx, "k", &got)
	if hit {
		t.Fatalf("key should have expired")
	}
}

func TestRedisCacheCorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	if err := mr.Set("bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got payload
	hit, err := c.GetJSON(ctx, "bad", &got)
	if err != nil || hit {
		t.Fatalf("corrupt value should be a miss, hit=%v err=%v", hit, err)
	}
	if mr.Exists("bad") {
		t.Fatalf("corrupt key should be deleted")
	}
}

func TestRedisCacheSets(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SAdd(ctx, "idx", "a", "b", "c"); err != nil {
		t.Fatalf("SAdd: %v", err)
	}
	if err := c.SRem(ctx, "idx", "b"); err != nil {
		t.Fatalf("SRem: %v", err)
	}
	members, err := c.SMembers(ctx, "idx")
	if err != nil {
		t.Fatalf("SMembers: %v", err)
	}
	sort.Strings(members)
	if len(members) != 2 || members[0] != "a" || members[1] != "c" {
		t.Fatalf("members = %v", members)
	}
	if err := c.Del(ctx, "idx"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	members, _ = c.SMembers(ctx, "idx")
	if len(members) != 0 {
		t.Fatalf("members after Del = %v", members)
	}
}
