package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/wizard"
)

// Draft sessions expire after this long without a write. An expired session
// loses all wizard progress, there is no partial save.
const sessionTTL = 30 * time.Minute

type DraftCache struct {
	cli    *redis.Client
	logger *log.Logger
	tracer trace.Tracer
}

// Construct Redis client
func New(logger *log.Logger, tracer trace.Tracer, host, port string) (*DraftCache, error) {
	redisAddress := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &DraftCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}, nil
}

// Check connection function
func (dc *DraftCache) Ping() {
	val, _ := dc.cli.Ping().Result()
	dc.logger.Println(val)
}

// PostSession stores the session under its id and refreshes the TTL.
func (dc *DraftCache) PostSession(ctx context.Context, session *wizard.Session) error {
	ctx, span := dc.tracer.Start(ctx, "DraftCache.PostSession")
	defer span.End()

	value, err := json.Marshal(session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = dc.cli.Set(constructKey(session.ID), value, sessionTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		dc.logger.Printf("redis set error: %s", err)
	}
	return err
}

func (dc *DraftCache) GetSession(ctx context.Context, sessionId string) (*wizard.Session, error) {
	ctx, span := dc.tracer.Start(ctx, "DraftCache.GetSession")
	defer span.End()

	value, err := dc.cli.Get(constructKey(sessionId)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached session")
		dc.logger.Println(err)
		return nil, err
	}

	session := &wizard.Session{}
	err = json.Unmarshal(value, session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return session, nil
}

// DelSession discards a session, dropping all accumulated draft progress.
func (dc *DraftCache) DelSession(ctx context.Context, sessionId string) error {
	ctx, span := dc.tracer.Start(ctx, "DraftCache.DelSession")
	defer span.End()

	result := dc.cli.Del(constructKey(sessionId))
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error deleting cached session")
		dc.logger.Println(result.Err())
		return result.Err()
	}
	return nil
}
