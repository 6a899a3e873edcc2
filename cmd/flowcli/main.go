// cmd/flowcli/main.go
//
// flowcli はAI生成フローを端末から一通り試すための小さなクライアントです。
//
//	flowcli -base http://localhost:8080/api/v1 -token <JWT> -file source.txt
//
// テキストを投入し、完了までポーリングして提案を表示し、全件コミットします。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go_5_ai_flashcard/internal/genflow"
	"go_5_ai_flashcard/internal/model"
)

func main() {
	var (
		baseURL = flag.String("base", "http://localhost:8080/api/v1", "API base URL")
		token   = flag.String("token", "", "access token (Bearer)")
		file    = flag.String("file", "", "source text file (default: stdin)")
		modelID = flag.String("model", "", "generation model (optional)")
		max     = flag.Int("max", 0, "max flashcards to propose (optional)")
	)
	flag.Parse()

	sourceText, err := readSource(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read source text: %v\n", err)
		os.Exit(1)
	}

	req := &model.CreateGenerationRequest{SourceText: sourceText}
	if *modelID != "" {
		req.Model = modelID
	}
	if *max > 0 {
		req.MaxFlashcards = max
	}

	flow := genflow.NewFlow(genflow.NewHTTPClient(*baseURL, *token), genflow.NewRealClock())
	ctx := context.Background()

	fmt.Println("Submitting source text...")
	err = flow.Submit(ctx, req)
	for errors.Is(err, genflow.ErrPollingTimeout) {
		fmt.Println("Still generating, continuing to poll...")
		err = flow.Resume(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	gen := flow.Generation()
	fmt.Printf("Generation %s succeeded with %d proposals:\n", gen.GenerationID, len(gen.Proposals))
	for i, p := range gen.Proposals {
		fmt.Printf("  [%d] %s\n      front: %s\n      back:  %s\n", i+1, p.ProposalID, p.Front, p.Back)
		if err := flow.ToggleAccept(p.ProposalID); err != nil {
			fmt.Fprintf(os.Stderr, "failed to accept proposal: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Committing %d proposals...\n", flow.SelectedCount())
	result, err := flow.CommitSelected(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commit failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %d flashcards (edited: %d, unedited: %d)\n",
		result.CreatedCount, result.AcceptedEditedCount, result.AcceptedUneditedCount)
}

func readSource(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
