package main

import (
	"context"
	"log"
	"os"

	"aistheticapi/dbhelper"
	"aistheticapi/services"
	"aistheticapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
)

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{

		LogLevel: asynq.InfoLevel,
	})

	scheduled := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 18 * * *", // 6:00 PM daily
			task: tasks.NewUntaggedScanTask(),
			desc: "Untagged closet reminders",
		},
	}

	for _, t := range scheduled {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"suggest": 7,
			"notify":  3,
		}},
	)
	awsService := &services.AWSService{}
	suggester := services.GoogleTagSuggester{}
	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")})

	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc("closet:suggest_tags", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleTagSuggestionTask(ctx, t, db, suggester, awsService, app)
	})
	mux.HandleFunc("closet:untagged_scan", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleUntaggedScanTask(ctx, t, db, asynqClient)
	})
	mux.HandleFunc("closet:untagged_reminder", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleClosetReminderTask(ctx, t, db, app)
	})

	go runScheduler()
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
