package worker

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// StartWorker runs the asynq server until it is stopped. The handler is
// the consumers.Processor; it is passed as the asynq.Handler interface so
// this package stays import-cycle free.
func StartWorker(redisOpt asynq.RedisClientOpt, handler asynq.Handler) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// Specify how many concurrent workers to use
			Concurrency: 10,
			// Optionally specify multiple queues with different priority.
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(TypeWithdrawalAutoApprove, handler)
	mux.Handle(TypeFirstDepositConfirmed, handler)

	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("could not run worker server")
	}
}
