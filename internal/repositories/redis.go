package repositories

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"hobbyd/internal/models"
)

const (
	// Key suffixes, joined to the configured prefix
	userKey          = "user:"
	hobbyKey         = "hobby:"
	sessionKey       = "session:"
	userHobbiesKey   = "user_hobbies:"
	userSessionsKey  = "user_sessions:"
	hobbySessionsKey = "hobby_sessions:"

	DefaultRedisPrefix = "hobbyd:"
)

// RedisConfig holds configuration for the Redis repository
type RedisConfig struct {
	RedisClient *redis.Client
	Prefix      string
}

// redisRepository stores records as JSON strings. User hobbies live in a
// sorted set scored by creation time and are the only source of
// User.Hobbies; session ids are indexed per user and per hobby.
type redisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a new Redis-backed repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisRepository{client: cfg.RedisClient, prefix: prefix}, nil
}

func (r *redisRepository) key(kind, id string) string {
	return r.prefix + kind + id
}

func (r *redisRepository) kindKey(kind string) string {
	return r.prefix + "all_" + kind
}

func getJSON[T any](ctx context.Context, client *redis.Client, key string) (*T, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return &v, nil
}

func (r *redisRepository) SaveUser(ctx context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil || input.User.ID == "" {
		return errEmptyInput
	}
	stored := copyUser(input.User)
	stored.Hobbies = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(userKey, input.User.ID), data, 0)
	pipe.SAdd(ctx, r.kindKey(KindUsers), input.User.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *redisRepository) GetUser(ctx context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	u, err := getJSON[models.User](ctx, r.client, r.key(userKey, input.UserID))
	if err != nil {
		return nil, err
	}
	ids, err := r.client.ZRange(ctx, r.key(userHobbiesKey, input.UserID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hobby IDs for user: %w", err)
	}
	u.Hobbies = append([]string{}, ids...)
	return u, nil
}

func (r *redisRepository) SaveHobby(ctx context.Context, input *SaveHobbyInput) error {
	if input == nil || input.Hobby == nil || input.Hobby.ID == "" {
		return errEmptyInput
	}
	hobby := input.Hobby

	exists, err := r.client.Exists(ctx, r.key(userKey, hobby.UserID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check owner %s: %w", hobby.UserID, err)
	}
	if exists == 0 {
		return fmt.Errorf("owner %s: %w", hobby.UserID, ErrNotFound)
	}

	hobbyJSON, err := json.Marshal(hobby)
	if err != nil {
		return fmt.Errorf("failed to marshal hobby: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(hobbyKey, hobby.ID), hobbyJSON, 0)
	pipe.ZAdd(ctx, r.key(userHobbiesKey, hobby.UserID), redis.Z{
		Score:  float64(hobby.CreatedAt.UnixMilli()),
		Member: hobby.ID,
	})
	pipe.SAdd(ctx, r.kindKey(KindHobbies), hobby.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save hobby: %w", err)
	}
	return nil
}

func (r *redisRepository) GetHobby(ctx context.Context, input *GetHobbyInput) (*models.Hobby, error) {
	if input == nil || input.HobbyID == "" {
		return nil, errEmptyInput
	}
	return getJSON[models.Hobby](ctx, r.client, r.key(hobbyKey, input.HobbyID))
}

func (r *redisRepository) ListHobbies(ctx context.Context, input *ListHobbiesInput) (*ListHobbiesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}

	ids, err := r.client.ZRange(ctx, r.key(userHobbiesKey, input.UserID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hobby IDs for user: %w", err)
	}
	if len(ids) == 0 {
		return &ListHobbiesOutput{Hobbies: []*models.Hobby{}}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.key(hobbyKey, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get hobbies: %w", err)
	}

	hobbies := make([]*models.Hobby, 0, len(ids))
	for i, cmd := range cmds {
		raw, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Hobby was deleted between reading the index and the records
				continue
			}
			return nil, fmt.Errorf("failed to get hobby %s: %w", ids[i], err)
		}
		var h models.Hobby
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hobby %s: %w", ids[i], err)
		}
		hobbies = append(hobbies, &h)
	}

	sortHobbies(hobbies)
	return &ListHobbiesOutput{Hobbies: hobbies}, nil
}

func (r *redisRepository) DeleteHobby(ctx context.Context, input *DeleteHobbyInput) (*DeleteHobbyOutput, error) {
	if input == nil || input.HobbyID == "" || input.UserID == "" {
		return nil, errEmptyInput
	}

	hobby, err := r.GetHobby(ctx, &GetHobbyInput{HobbyID: input.HobbyID})
	if err != nil {
		return nil, err
	}
	if hobby.UserID != input.UserID {
		return nil, ErrNotFound
	}

	sessionIDs, err := r.client.SMembers(ctx, r.key(hobbySessionsKey, input.HobbyID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs for hobby: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, id := range sessionIDs {
		pipe.Del(ctx, r.key(sessionKey, id))
		pipe.SRem(ctx, r.key(userSessionsKey, input.UserID), id)
		pipe.SRem(ctx, r.kindKey(KindSessions), id)
	}
	pipe.Del(ctx, r.key(hobbySessionsKey, input.HobbyID))
	pipe.Del(ctx, r.key(hobbyKey, input.HobbyID))
	pipe.ZRem(ctx, r.key(userHobbiesKey, input.UserID), input.HobbyID)
	pipe.SRem(ctx, r.kindKey(KindHobbies), input.HobbyID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete hobby: %w", err)
	}

	return &DeleteHobbyOutput{DeletedSessions: len(sessionIDs)}, nil
}

func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil || input.Session.ID == "" {
		return errEmptyInput
	}
	s := input.Session
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(sessionKey, s.ID), data, 0)
	pipe.SAdd(ctx, r.key(userSessionsKey, s.UserID), s.ID)
	pipe.SAdd(ctx, r.key(hobbySessionsKey, s.HobbyID), s.ID)
	pipe.SAdd(ctx, r.kindKey(KindSessions), s.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errEmptyInput
	}
	return getJSON[models.Session](ctx, r.client, r.key(sessionKey, input.SessionID))
}

func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errEmptyInput
	}
	s, err := r.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(sessionKey, s.ID))
	pipe.SRem(ctx, r.key(userSessionsKey, s.UserID), s.ID)
	pipe.SRem(ctx, r.key(hobbySessionsKey, s.HobbyID), s.ID)
	pipe.SRem(ctx, r.kindKey(KindSessions), s.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *redisRepository) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}

	indexKey := r.key(userSessionsKey, input.UserID)
	if input.HobbyID != "" {
		indexKey = r.key(hobbySessionsKey, input.HobbyID)
	}
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs: %w", err)
	}
	if len(ids) == 0 {
		return &ListSessionsOutput{Sessions: []*models.Session{}}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.key(sessionKey, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(ids))
	for i, cmd := range cmds {
		raw, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", ids[i], err)
		}
		var s models.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", ids[i], err)
		}
		if s.UserID != input.UserID {
			continue
		}
		sessions = append(sessions, &s)
	}

	return &ListSessionsOutput{Sessions: finishSessions(sessions, input.Limit)}, nil
}

func (r *redisRepository) Counts(ctx context.Context) (*CountsOutput, error) {
	pipe := r.client.Pipeline()
	kinds := []string{KindUsers, KindHobbies, KindSessions}
	cmds := make([]*redis.IntCmd, len(kinds))
	for i, kind := range kinds {
		cmds[i] = pipe.SCard(ctx, r.kindKey(kind))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	totals := make(map[string]int, len(kinds))
	for i, kind := range kinds {
		totals[kind] = int(cmds[i].Val())
	}
	return &CountsOutput{Totals: totals}, nil
}

func (r *redisRepository) Close() error {
	return r.client.Close()
}
