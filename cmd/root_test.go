package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storycraft/pkg/config"
	"storycraft/pkg/inference"
)

func TestBuildInferencer(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LLM.Provider = "offline"
	inf, err := buildInferencer(ctx, cfg)
	if err != nil {
		t.Fatalf("offline: %v", err)
	}
	if _, ok := inf.(inference.OfflineInferencer); !ok {
		t.Fatalf("offline provider built %T", inf)
	}

	cfg.LLM.Provider = "openai"
	cfg.OpenAI.Model = "gpt-4o-mini"
	if _, err := buildInferencer(ctx, cfg); err != nil {
		t.Fatalf("openai: %v", err)
	}

	cfg.LLM.Provider = "azure"
	if _, err := buildInferencer(ctx, cfg); err == nil {
		t.Fatal("azure without credentials should fail")
	}

	cfg.LLM.Provider = "gemini"
	if _, err := buildInferencer(ctx, cfg); err == nil {
		t.Fatal("gemini without a key should fail")
	}

	cfg.LLM.Provider = "grok"
	if _, err := buildInferencer(ctx, cfg); err == nil {
		t.Fatal("grok without a key should fail")
	}
	cfg.Grok.APIKey = "xai-key"
	if _, err := buildInferencer(ctx, cfg); err != nil {
		t.Fatalf("grok: %v", err)
	}

	cfg.LLM.Provider = "llama"
	if _, err := buildInferencer(ctx, cfg); err == nil {
		t.Fatal("unknown provider should fail")
	}
}

func TestCreateCommandOffline(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORYCRAFT_PROVIDER", "offline")
	t.Setenv("STORYCRAFT_CATALOG", filepath.Join(dir, "missing.json"))

	cfgPath := filepath.Join(dir, "storycraft.yaml")
	cfgData := "paths:\n" +
		"  text_dir: " + filepath.Join(dir, "text") + "\n" +
		"  document_dir: " + filepath.Join(dir, "pdf") + "\n" +
		"  log_file: " + filepath.Join(dir, "creations.log") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{
		"--config", cfgPath,
		"create",
		"--category", "poem",
		"--style", "haiku",
		"--tone", "Epic",
		"--protagonist", "A lone wolf",
		"--setting", "a snowy ridge",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("create: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Use Third Person perspective.") {
		t.Fatalf("output = %s", out.String())
	}

	log, err := os.ReadFile(filepath.Join(dir, "creations.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.HasSuffix(string(log), " | Poem | haiku | Epic\n") {
		t.Fatalf("log = %q", log)
	}

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "archive"})
	if err := root.Execute(); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if out.String() != string(log) {
		t.Fatalf("archive = %q, want %q", out.String(), log)
	}
}
