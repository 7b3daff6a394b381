// Boots the full container stack (MariaDB, Authorizer, optional Redis,
// the API image) outside of go test and holds it until interrupted, so a
// local server or client can be pointed at disposable backing services.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-connections/nat"
	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go"

	"github.com/pantrio/pantrio/tests/helpers"
)

func main() {
	envFile := flag.String("f", "", "load environment variables from this .env file first")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "testcontainers runs the pantrio test stack in Docker until interrupted.")
		fmt.Fprintln(out, "\nUsage: testcontainers [-f ENV_FILE]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Could not load %s: %v", *envFile, err)
		}
		log.Printf("Environment loaded from %s", *envFile)
	}

	booted := make(chan *helpers.TestContainers, 1)
	go func() {
		stack, err := helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Container startup failed: %v", err)
		}
		booted <- stack
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	var stack *helpers.TestContainers
	for {
		select {
		case stack = <-booted:
			log.Println("Stack is up. Press Ctrl-C to tear it down.")
			printEndpoints(stack)
		case sig := <-sigs:
			log.Printf("Caught %v, terminating containers", sig)
			if stack != nil {
				stack.Terminate(nil)
			}
			return
		}
	}
}

// printEndpoints logs the host-mapped address of each running container.
func printEndpoints(stack *helpers.TestContainers) {
	ctx := context.Background()
	endpoints := []struct {
		label     string
		container testcontainers.Container
		innerPort string
	}{
		{"api", stack.APIContainer, os.Getenv("PORT")},
		{"mariadb", stack.DBContainer, os.Getenv("DB_PORT")},
		{"redis", stack.RedisContainer, "6379"},
		{"authorizer", stack.AuthorizerContainer, os.Getenv("AUTHZ_PORT")},
	}
	for _, e := range endpoints {
		if e.container == nil {
			continue
		}
		host, err := e.container.Host(ctx)
		if err != nil {
			log.Printf("  %-10s address unavailable: %v", e.label, err)
			continue
		}
		port, err := e.container.MappedPort(ctx, nat.Port(e.innerPort+"/tcp"))
		if err != nil {
			log.Printf("  %-10s port unavailable: %v", e.label, err)
			continue
		}
		log.Printf("  %-10s %s:%s", e.label, host, port.Port())
	}
}
