// Command seedgen generates destination content for the guessing pool
// using an OpenAI-compatible chat API. It is run offline by an operator;
// the server never calls the model. Output is a JSON array in the same
// shape as the embedded starter pack, ready to insert via the
// destinations table or to replace internal/server/destinations.json.
//
// Usage:
//
//	OPENAI_API_KEY=... seedgen -n 10 -out destinations.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const prompt = `Generate travel content for a random city (new each time) in JSON format:
{
  "city": "Pick a random city",
  "country": "Name of country",
  "clues": [2 cryptic clues],
  "fun_facts": [2 interesting facts],
  "trivia": [2 trivia items]
}

The clues must not name the city directly. Return only the JSON object,
no markdown fences.`

type destination struct {
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Clues    []string `json:"clues"`
	FunFacts []string `json:"fun_facts"`
	Trivia   []string `json:"trivia"`
}

func main() {
	var (
		count   = flag.Int("n", 5, "number of destinations to generate")
		outPath = flag.String("out", "-", "output file, or - for stdout")
		model   = flag.String("model", openai.GPT4oMini, "model to use")
		baseURL = flag.String("base-url", "", "override API base URL (e.g. a local gateway)")
	)
	flag.Parse()

	if err := run(context.Background(), *count, *outPath, *model, *baseURL); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, count int, outPath, model, baseURL string) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	seen := make(map[string]bool)
	var destinations []destination

	for len(destinations) < count {
		d, err := generateOne(ctx, client, model)
		if err != nil {
			return fmt.Errorf("generating destination: %w", err)
		}
		if d.City == "" || len(d.Clues) < 2 || len(d.FunFacts) < 2 || len(d.Trivia) < 2 {
			continue
		}
		if seen[d.City] {
			continue
		}
		seen[d.City] = true
		destinations = append(destinations, d)
		fmt.Fprintf(os.Stderr, "generated %s, %s (%d/%d)\n", d.City, d.Country, len(destinations), count)
	}

	data, err := json.MarshalIndent(destinations, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if outPath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

func generateOne(ctx context.Context, client *openai.Client, model string) (destination, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 1.0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return destination{}, err
	}
	if len(resp.Choices) == 0 {
		return destination{}, fmt.Errorf("empty completion")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var d destination
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &d); err != nil {
		return destination{}, fmt.Errorf("parsing model output: %w", err)
	}
	return d, nil
}
