package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petcare/internal/config"
	"petcare/internal/http/handlers"
	"petcare/internal/notify"
	"petcare/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.NotifyTimeout,
		})
		log.Printf("[notify] smtp %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Printf("[notify] SMTP_HOST not set, notifications go to the log")
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyTimeout)

	app := handlers.NewApp(cfg, db, dispatcher)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("[server] shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[server] shutdown: %v", err)
		}
	}()

	log.Printf("[server] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("[server] %v", err)
	}
	// Let queued confirmations finish before the store closes.
	dispatcher.Wait()
}
