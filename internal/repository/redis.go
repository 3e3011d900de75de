package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nzoschke/goalbot/internal/model"
	"github.com/redis/go-redis/v9"
)

// Redis layout, all keys under a configurable prefix:
//
//	{prefix}goals           hash   goal id -> encoded goal
//	{prefix}goals:next_id   string counter used for goal ids
//	{prefix}votes:{goal_id} list   encoded votes in cast order
//	{prefix}votes:goals     set    goal ids that have votes
type redisKeys struct {
	prefix string
}

func (k redisKeys) goals() string             { return k.prefix + "goals" }
func (k redisKeys) goalSeq() string           { return k.prefix + "goals:next_id" }
func (k redisKeys) votes(goalID int64) string { return fmt.Sprintf("%svotes:%d", k.prefix, goalID) }
func (k redisKeys) votedGoals() string        { return k.prefix + "votes:goals" }

type RedisGoalRepository struct {
	client redis.UniversalClient
	codec  Codec
	keys   redisKeys
}

func NewRedisGoalRepository(client redis.UniversalClient, codec Codec, prefix string) *RedisGoalRepository {
	return &RedisGoalRepository{client: client, codec: codec, keys: redisKeys{prefix: prefix}}
}

func (r *RedisGoalRepository) Create(ctx context.Context, goal *model.Goal) (int64, error) {
	id, err := r.client.Incr(ctx, r.keys.goalSeq()).Result()
	if err != nil {
		return 0, fmt.Errorf("allocating goal id: %w", err)
	}

	saved := *goal
	saved.ID = id
	data, err := r.codec.Marshal(&saved)
	if err != nil {
		return 0, fmt.Errorf("encoding goal: %w", err)
	}

	err = r.client.HSet(ctx, r.keys.goals(), strconv.FormatInt(id, 10), data).Err()
	if err != nil {
		return 0, fmt.Errorf("storing goal %d: %w", id, err)
	}

	goal.ID = id
	return id, nil
}

func (r *RedisGoalRepository) Delete(ctx context.Context, id int64) error {
	err := r.client.HDel(ctx, r.keys.goals(), strconv.FormatInt(id, 10)).Err()
	if err != nil {
		return fmt.Errorf("deleting goal %d: %w", id, err)
	}
	return nil
}

func (r *RedisGoalRepository) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	data, err := r.client.HGet(ctx, r.keys.goals(), strconv.FormatInt(id, 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading goal %d: %w", id, err)
	}

	goal := &model.Goal{}
	if err := r.codec.Unmarshal(data, goal); err != nil {
		return nil, fmt.Errorf("decoding goal %d: %w", id, err)
	}
	return goal, nil
}

func (r *RedisGoalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	entries, err := r.client.HGetAll(ctx, r.keys.goals()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	goals := make([]*model.Goal, 0, len(entries))
	for field, data := range entries {
		goal := &model.Goal{}
		if err := r.codec.Unmarshal([]byte(data), goal); err != nil {
			return nil, fmt.Errorf("decoding goal %s: %w", field, err)
		}
		goals = append(goals, goal)
	}
	sortGoals(goals)
	return goals, nil
}

type RedisVoteRepository struct {
	client redis.UniversalClient
	codec  Codec
	keys   redisKeys
}

func NewRedisVoteRepository(client redis.UniversalClient, codec Codec, prefix string) *RedisVoteRepository {
	return &RedisVoteRepository{client: client, codec: codec, keys: redisKeys{prefix: prefix}}
}

func (r *RedisVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	data, err := r.codec.Marshal(vote)
	if err != nil {
		return fmt.Errorf("encoding vote: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.keys.votes(vote.GoalID), data)
		pipe.SAdd(ctx, r.keys.votedGoals(), vote.GoalID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing vote for goal %d: %w", vote.GoalID, err)
	}
	return nil
}

func (r *RedisVoteRepository) ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error) {
	items, err := r.client.LRange(ctx, r.keys.votes(goalID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing votes for goal %d: %w", goalID, err)
	}

	votes := make([]*model.Vote, 0, len(items))
	for _, item := range items {
		vote := &model.Vote{}
		if err := r.codec.Unmarshal([]byte(item), vote); err != nil {
			return nil, fmt.Errorf("decoding vote for goal %d: %w", goalID, err)
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

func (r *RedisVoteRepository) GoalIDs(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, r.keys.votedGoals()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing voted goal ids: %w", err)
	}

	votes := make([]model.Vote, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing voted goal id %q: %w", m, err)
		}
		votes = append(votes, model.Vote{GoalID: id})
	}
	return distinctGoalIDs(votes), nil
}
