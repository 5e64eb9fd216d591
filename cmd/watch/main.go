// Package main provides a small terminal client that follows an OpenShelf
// server's event streams and keeps a reconciled local view of the catalog.
package main

import (
	"context"
	"encoding/json/v2"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openshelf/openshelf-server/internal/client"
	"github.com/openshelf/openshelf-server/internal/dto"
	"github.com/openshelf/openshelf-server/internal/logger"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "OpenShelf server base URL")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(logger.Config{Level: logger.ParseLevel(*logLevel)})

	cache := client.NewCache()

	// Prime from the query API first; pushed events that race the initial
	// listing merge idempotently on top.
	if err := prime(*server, cache); err != nil {
		log.Error("Failed to prime cache", "error", err)
		os.Exit(1)
	}
	log.Info("Cache primed", "books", len(cache.Books()), "authors", len(cache.Authors()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookStream := client.NewStream(*server+"/api/v1/subscriptions/books", cache, log.Logger)
	authorStream := client.NewStream(*server+"/api/v1/subscriptions/authors", cache, log.Logger)

	errs := make(chan error, 2)
	go func() { errs <- bookStream.Run(ctx) }()
	go func() { errs <- authorStream.Run(ctx) }()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info("Disconnecting")
			return
		case err := <-errs:
			if err != nil && ctx.Err() == nil {
				log.Error("Stream ended", "error", err)
				os.Exit(1)
			}
		case <-ticker.C:
			books := cache.Books()
			authors := cache.Authors()
			log.Info("Catalog view", "books", len(books), "authors", len(authors))
			for _, b := range books {
				fmt.Printf("  %s (%d) by %s\n", b.Title, b.Published, b.Author.Name)
			}
		}
	}
}

// prime fills the cache from the books and authors listings.
func prime(server string, cache *client.Cache) error {
	var books envelope[struct {
		Books []*dto.Book `json:"books"`
	}]
	if err := getJSON(server+"/api/v1/books", &books); err != nil {
		return err
	}
	cache.PrimeBooks(books.Data.Books)

	var authors envelope[struct {
		Authors []*dto.Author `json:"authors"`
	}]
	if err := getJSON(server+"/api/v1/authors", &authors); err != nil {
		return err
	}
	cache.PrimeAuthors(authors.Data.Authors)
	return nil
}

func getJSON(url string, out any) error {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.UnmarshalRead(resp.Body, out)
}
