// Command lockclient runs on a bookable computer and gates access to it.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"computer-booking/internal/lockclient"
	"computer-booking/pkg/utils"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("lockclient", pflag.ExitOnError)
	flags.String("server-url", "http://localhost:8080", "booking server base URL")
	flags.String("computer-id", "", "ID of this computer")
	flags.String("check-interval", "10", "poll interval, in seconds or as a Go duration")
	flags.String("client-api-key", "", "shared key sent as X-Client-Key")
	flags.String("config", ".env", "optional env file")
	flags.Bool("debug", false, "debug logging")
	_ = flags.Parse(os.Args[1:])

	// Keys match the env file and environment: SERVER_URL, COMPUTER_ID, ...
	v := viper.New()
	for key, flag := range map[string]string{
		"server_url":     "server-url",
		"computer_id":    "computer-id",
		"check_interval": "check-interval",
		"client_api_key": "client-api-key",
		"debug":          "debug",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("Failed to bind flag %s: %v", flag, err)
		}
	}
	v.AutomaticEnv()

	if path, _ := flags.GetString("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				log.Fatalf("Failed to read %s: %v", path, err)
			}
		}
	}

	logger, err := utils.InitLogger("", v.GetBool("debug"))
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	interval, err := parseInterval(v.GetString("check_interval"))
	if err != nil {
		logger.Fatal("Invalid CHECK_INTERVAL", zap.Error(err))
	}

	config := lockclient.Config{
		ServerURL:  v.GetString("server_url"),
		ComputerID: v.GetString("computer_id"),
		APIKey:     v.GetString("client_api_key"),
		Interval:   interval,
	}
	if config.ComputerID == "" {
		logger.Fatal("COMPUTER_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := lockclient.New(config, lockclient.NewLogActuator(logger), logger)
	if err := client.Run(ctx); err != nil {
		logger.Error("Lock client stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// parseInterval accepts a bare number of seconds or a Go duration string.
func parseInterval(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
