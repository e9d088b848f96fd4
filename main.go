package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookingx "github.com/thehungryunicorn/booking-agent/agent/booking"
	enginex "github.com/thehungryunicorn/booking-agent/agent/engine"
	oraclex "github.com/thehungryunicorn/booking-agent/agent/oracle"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
	configx "github.com/thehungryunicorn/booking-agent/pkg/config"
	_ "github.com/thehungryunicorn/booking-agent/pkg/logger/autoload"
)

func main() {
	ctx := context.Background()

	oracleCfg := configx.MustNew[oraclex.Config]("ORACLE")
	bookingCfg := configx.MustNew[bookingx.Config]("BOOKING")

	llm, err := oraclex.New(ctx, *oracleCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize oracle")
	}

	client, err := bookingx.NewClient(*bookingCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize booking client")
	}

	eng, err := enginex.New(statex.NewMemoryStore(), llm, bookingx.NewDispatcher(client))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine")
	}

	sessionID := uuid.NewString()
	fmt.Println("Restaurant booking agent is ready. Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "quit") {
			break
		}

		reply, err := eng.HandleTurn(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println("Agent: Sorry, I encountered an issue and couldn't respond.")
			continue
		}
		fmt.Printf("Agent: %s\n", reply)
	}
}
