package main

import (
	"log"
	"os"
	"time"

	"podstudio/internal/db"
	"podstudio/internal/worker"
	"podstudio/pkg/tasks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	var bot worker.MessageSender
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		b, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			log.Fatalf("could not create telegram bot: %v", err)
		}
		log.Printf("Delivering notifications as @%s", b.Self.UserName)
		bot = b
	} else {
		log.Println("TELEGRAM_BOT_TOKEN is not set, notification delivery disabled")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Notification delivery is best effort; back off quickly and
			// give up rather than hammering Telegram.
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 30 * time.Second
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > 10*time.Minute {
						delay = 10 * time.Minute
						break
					}
				}
				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(bot)

	mux.HandleFunc(tasks.TypeDeliverNotification, taskHandler.HandleDeliverNotificationTask)
	mux.HandleFunc(tasks.TypeSweepPresence, taskHandler.HandleSweepPresenceTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
