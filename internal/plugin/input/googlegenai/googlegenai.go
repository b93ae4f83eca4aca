// Package googlegenai provides an input plugin that asks a Google Gemini
// model to choose a base colour from a text description.
package googlegenai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
)

const (
	// defaultModel is the default model used when none is specified.
	defaultModel = "gemini-2.5-flash"

	// defaultBackend is the default backend used when none is specified.
	defaultBackend = "gemini-api"

	// promptTemplate wraps the user's description so the model answers with a colour only.
	promptTemplate = "You are choosing a brand base colour for an accessible web palette. " +
		"Reply with exactly one colour as a six digit hex code in the form #rrggbb and nothing else. " +
		"Description: %s"
)

var (
	hashedHex = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	bareHex   = regexp.MustCompile(`\b[0-9a-fA-F]{6}\b`)
)

// textGenerator is the slice of the Gen AI client the plugin needs.
type textGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Plugin implements the input.Plugin interface for Gemini-suggested colours.
type Plugin struct {
	prompt  string
	model   string
	backend string

	cacheEnabled bool
	cacheDir     string

	apiKey    string
	generator textGenerator
}

// New creates a new Google Gen AI input plugin with default settings.
func New() *Plugin {
	defaultCacheDir := filepath.Join(".cache", "wcagtint", "google-genai")
	if dir, err := os.UserCacheDir(); err == nil {
		defaultCacheDir = filepath.Join(dir, "wcagtint", "google-genai")
	}

	return &Plugin{
		model:        defaultModel,
		backend:      defaultBackend,
		cacheEnabled: true,
		cacheDir:     defaultCacheDir,
	}
}

func (p *Plugin) Name() string {
	return "genai"
}

// Description returns a human-readable description.
func (p *Plugin) Description() string {
	return "Ask a Google Gemini model for a base colour matching a description"
}

func (p *Plugin) Version() string {
	return "0.1.0"
}

// RegisterFlags registers plugin-specific flags.
func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.prompt, "genai.prompt", "", "Description of the brand or mood to pick a colour for")
	cmd.Flags().StringVar(&p.model, "genai.model", p.model, "Gemini model to use")
	cmd.Flags().StringVar(&p.backend, "genai.backend", p.backend, "Google Gen AI backend (gemini-api or vertex-ai)")
	cmd.Flags().BoolVar(&p.cacheEnabled, "genai.cache", p.cacheEnabled, "Cache answers per prompt and model")
	cmd.Flags().StringVar(&p.cacheDir, "genai.cache-dir", p.cacheDir, "Cache directory")
}

// SetAPIKey supplies the Gemini API key, overriding GOOGLE_API_KEY.
func (p *Plugin) SetAPIKey(key string) {
	p.apiKey = key
}

// SetPrompt sets the description without going through flags.
func (p *Plugin) SetPrompt(prompt string) {
	p.prompt = prompt
}

// Validate checks if required inputs are configured.
func (p *Plugin) Validate() error {
	if strings.TrimSpace(p.prompt) == "" {
		return fmt.Errorf("%w: --genai.prompt is required", input.ErrNoBaseColour)
	}
	if p.backend != "gemini-api" && p.backend != "vertex-ai" {
		return fmt.Errorf("invalid backend %q (valid: gemini-api, vertex-ai)", p.backend)
	}
	return nil
}

func (p *Plugin) GetFlagHelp() []input.FlagHelp {
	return []input.FlagHelp{
		{Name: "genai.prompt", Type: "string", Default: "", Description: "Description of the brand or mood to pick a colour for", Required: true},
		{Name: "genai.model", Type: "string", Default: defaultModel, Description: "Gemini model to use"},
		{Name: "genai.backend", Type: "string", Default: defaultBackend, Description: "Google Gen AI backend (gemini-api or vertex-ai)"},
		{Name: "genai.cache", Type: "bool", Default: "true", Description: "Cache answers per prompt and model"},
		{Name: "genai.cache-dir", Type: "string", Default: p.cacheDir, Description: "Cache directory"},
	}
}

// Generate asks the model for a colour, using the cache when possible.
func (p *Plugin) Generate(ctx context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "Google Gen AI Plugin Configuration:\n")
		fmt.Fprintf(os.Stderr, "  Prompt: %s\n", p.prompt)
		fmt.Fprintf(os.Stderr, "  Model: %s\n", p.model)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", p.backend)
		fmt.Fprintf(os.Stderr, "  Cache: %v (dir: %s)\n", p.cacheEnabled, p.cacheDir)
	}

	cachePath := p.cachePath()
	if p.cacheEnabled {
		if data, err := os.ReadFile(cachePath); err == nil { // #nosec G304 -- path derived from cache dir and hash
			if rgb, err := colour.ParseHex(strings.TrimSpace(string(data))); err == nil {
				if opts.Verbose {
					fmt.Fprintf(os.Stderr, "Using cached answer: %s\n", cachePath)
				}
				return rgb, nil
			}
		}
	}

	if opts.DryRun {
		return colour.RGB{}, fmt.Errorf("%w: dry run skips the Gen AI request", input.ErrNoBaseColour)
	}

	gen := p.generator
	if gen == nil {
		client, err := p.clientSetup(ctx, opts.Verbose)
		if err != nil {
			return colour.RGB{}, err
		}
		gen = &genaiGenerator{client: client}
	}

	fmt.Fprintf(os.Stderr, "[genai] backend=%s model=%s prompt=%q\n", p.backend, p.model, p.prompt)
	reply, err := gen.GenerateText(ctx, p.model, fmt.Sprintf(promptTemplate, p.prompt))
	if err != nil {
		return colour.RGB{}, fmt.Errorf("colour suggestion failed: %w", err)
	}

	rgb, err := extractHex(reply)
	if err != nil {
		return colour.RGB{}, err
	}

	if p.cacheEnabled {
		if err := os.MkdirAll(p.cacheDir, 0o755); err == nil { // #nosec G301 -- cache directory
			_ = os.WriteFile(cachePath, []byte(rgb.Hex()+"\n"), 0o600)
		}
	}
	return rgb, nil
}

// cachePath returns the cache file for the current prompt and model.
func (p *Plugin) cachePath() string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(p.prompt)) + "\x00" + p.model))
	return filepath.Join(p.cacheDir, "genai-"+hex.EncodeToString(hash[:])[:16]+".txt")
}

// extractHex pulls the first #rrggbb out of a model reply.
func extractHex(reply string) (colour.RGB, error) {
	m := hashedHex.FindString(reply)
	if m == "" {
		m = bareHex.FindString(reply)
	}
	if m == "" {
		return colour.RGB{}, fmt.Errorf("%w: model reply contained no hex colour: %q", input.ErrNoBaseColour, strings.TrimSpace(reply))
	}
	return colour.ParseHex(m)
}

// clientSetup encapsulates client configuration and creation.
func (p *Plugin) clientSetup(ctx context.Context, verbose bool) (*genai.Client, error) {
	clientConfig := &genai.ClientConfig{}

	if p.backend == "vertex-ai" {
		clientConfig.Backend = genai.BackendVertexAI
	} else {
		clientConfig.Backend = genai.BackendGeminiAPI
	}

	// An API key is required for the Gemini API backend.
	if clientConfig.Backend == genai.BackendGeminiAPI {
		apiKey := p.apiKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("GOOGLE_API_KEY environment variable is required\nGet one at: https://aistudio.google.com/api-keys")
		}
		clientConfig.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	if verbose {
		backendName := "Gemini API"
		if client.ClientConfig().Backend == genai.BackendVertexAI {
			backendName = "Vertex AI"
		}
		fmt.Fprintf(os.Stderr, "Using %s backend\n", backendName)
	}

	return client, nil
}

// genaiGenerator adapts *genai.Client to textGenerator.
type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	temperature := float32(0.2)
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "text/plain",
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	return resp.Text(), nil
}
