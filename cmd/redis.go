package cmd

import (
	"fmt"
	"log"

	"MuzBot/config"
	"MuzBot/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connects to Redis with the configured credentials and performs a test write and read.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Redis target: %s:%s, DB %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("cannot connect to redis: %v", err)
		}
		fmt.Println("Connected.")

		if err := db.TestRedis(); err != nil {
			log.Fatalf("redis round trip failed: %v", err)
		}
		fmt.Println("Round trip OK.")

		if err := db.CloseRedis(); err != nil {
			log.Printf("error closing redis connection: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
