package results

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/redis/go-redis/v9"
)

var scenarioRe = regexp.MustCompile(`^[a-zA-Z0-9._/-]{1,128}$`)

// Store keeps the most recent record per scenario in Redis.
type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client}, nil
}

func ValidateScenario(name string) error {
	if !scenarioRe.MatchString(name) {
		return fmt.Errorf("invalid scenario name %q", name)
	}
	return nil
}

// Record overwrites the stored outcome of r.Scenario.
func (s *Store) Record(ctx context.Context, r Record) error {
	if err := ValidateScenario(r.Scenario); err != nil {
		return err
	}

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, resultKey(r.Scenario), b, 0)
	pipe.SAdd(ctx, constants.RedisKeyResultIndex, r.Scenario)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, scenario string) (*Record, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, resultKey(scenario)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}

	var r Record
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &r, nil
}

// List returns the latest record of every known scenario, sorted by name.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	names, err := s.client.SMembers(ctx, constants.RedisKeyResultIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list results index: %w", err)
	}

	keys := make([]string, 0, len(names))
	for _, n := range names {
		if ValidateScenario(n) == nil {
			keys = append(keys, resultKey(n))
		}
	}
	if len(keys) == 0 {
		return []*Record{}, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget results: %w", err)
	}

	out := make([]*Record, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			continue
		}
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scenario < out[j].Scenario })
	return out, nil
}

// Failing returns the scenarios whose latest record did not pass.
func (s *Store) Failing(ctx context.Context) ([]*Record, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []*Record{}
	for _, r := range all {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, scenario string) error {
	if err := ValidateScenario(scenario); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, resultKey(scenario))
	pipe.SRem(ctx, constants.RedisKeyResultIndex, scenario)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

func resultKey(scenario string) string {
	return constants.RedisKeyResultPrefix + scenario
}
