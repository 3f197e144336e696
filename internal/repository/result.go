package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var ErrResultNotFound = errors.New("result not found")

// ResultRepository archives finished games. Live room state never touches
// it: sessions are memory-only by design, this is a results log.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByRoomCode(ctx context.Context, code string) (*entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	resultKey := "result:" + result.RoomCode
	if err = that.client.Set(ctx, resultKey, resultJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByRoomCode(ctx context.Context, code string) (*entity.GameResult, error) {
	resultKey := "result:" + code

	response, err := that.client.Get(ctx, resultKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.GameResult{}, ErrResultNotFound
	}

	if err != nil {
		return &entity.GameResult{}, fmt.Errorf("failed to get result by room code: %w", err)
	}

	var existingResult entity.GameResult
	if err = json.Unmarshal([]byte(response), &existingResult); err != nil {
		return &entity.GameResult{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &existingResult, nil
}

// noopResult is the archive used when redis is not configured.
type noopResult struct{}

func NewNoopResultRepository() ResultRepository {
	return &noopResult{}
}

func (that *noopResult) Save(_ context.Context, _ *entity.GameResult) error {
	return nil
}

func (that *noopResult) GetByRoomCode(_ context.Context, _ string) (*entity.GameResult, error) {
	return &entity.GameResult{}, ErrResultNotFound
}
