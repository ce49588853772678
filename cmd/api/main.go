package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/api"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	srv := api.NewServer()
	logrus.Infof("API server listening on :%s", port)
	if err := srv.Run(port); err != nil {
		logrus.Fatalf("server stopped with error: %v", err)
	}
}
