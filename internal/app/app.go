// Package app wires the stores and publishers both binaries share.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-qpaper/internal/config"
	"github.com/mind-engage/mindengage-qpaper/internal/db"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

type App struct {
	DB        *sql.DB
	Questions question.Store
	Events    events.Publisher

	mongo *mongo.Client
	amqp  *events.AMQPPublisher
	log   *zap.Logger
}

// Open connects the SQL database (users, event log and, by default,
// questions), the optional Mongo question store and the optional AMQP
// publisher. An unreachable broker is logged and skipped.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a := &App{DB: dbh, log: log}

	switch cfg.QuestionStore {
	case "", "sql":
		a.Questions = question.NewSQLStore(dbh)
	case "mongo":
		client, mdb, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mongo = client
		a.Questions = question.NewMongoStore(mdb)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown question store %q", cfg.QuestionStore)
	}

	pubs := events.Fanout{events.NewSQLLog(dbh, "local")}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn("amqp disabled", zap.Error(err))
		} else {
			a.amqp = p
			pubs = append(pubs, p)
		}
	}
	a.Events = pubs
	log.Info("stores ready",
		zap.String("db", cfg.DBDriver),
		zap.String("questions", cfg.QuestionStore),
		zap.Bool("amqp", a.amqp != nil))
	return a, nil
}

func (a *App) Close() {
	if a.amqp != nil {
		a.amqp.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			a.log.Warn("mongo disconnect", zap.Error(err))
		}
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
