package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/dhruv304c2/gemini-gateway/service/config"
	llmApi "github.com/dhruv304c2/gemini-gateway/service/llm_api"
)

// Terminal client that talks to the model the same way /api/chat does.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	provider, err := llmApi.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SystemInstruction)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var messages []llmApi.ChatMessage
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Gemini chat (%s), type 'exit' to quit\n", cfg.GeminiModel)
	for {
		fmt.Println()
		fmt.Print("You: ")
		userInput, err := reader.ReadString('\n')
		userInput = strings.TrimSpace(userInput)
		if err != nil && userInput == "" {
			return
		}
		if strings.ToLower(userInput) == "exit" {
			fmt.Println("Goodbye!")
			return
		}
		if userInput == "" {
			continue
		}

		messages = append(messages, message(llmApi.RoleUser, userInput))
		history, last, err := llmApi.BuildChatHistory(messages)
		if err != nil {
			log.Fatalf("%v", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, cfg.ProviderTimeout)
		resp, err := provider.Chat(callCtx, history, last)
		cancel()
		if err != nil {
			log.WithError(err).Error("chat failed")
			// Drop the unanswered turn so the history keeps alternating.
			messages = messages[:len(messages)-1]
			continue
		}

		reply := llmApi.ExtractText(resp)
		fmt.Println()
		fmt.Println("AI:", reply)

		messages = append(messages, message(llmApi.RoleAssistant, reply))
	}
}

func message(role, content string) llmApi.ChatMessage {
	return llmApi.ChatMessage{Role: role, Content: content}
}
