package contract

import (
	"os"
	"path/filepath"
	"testing"
)

const donateABI = `[
	{
		"inputs": [],
		"name": "donate",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

func writeArtifactFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write artifact file: %v", err)
	}
	return path
}

func TestLoadArtifactCompiledOutput(t *testing.T) {
	path := writeArtifactFile(t, `{"abi": `+donateABI+`, "bytecode": "0x6001600101"}`)

	art, err := LoadArtifact("Campaign", path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}
	if art.Name != "Campaign" {
		t.Errorf("expected name Campaign, got %s", art.Name)
	}
	if _, ok := art.ABI.Methods["donate"]; !ok {
		t.Error("expected donate method in parsed ABI")
	}
	if !art.HasBytecode() {
		t.Error("expected bytecode to be present")
	}
	if len(art.Bytecode) != 5 {
		t.Errorf("expected 5 bytecode bytes, got %d", len(art.Bytecode))
	}
}

func TestLoadArtifactBareABI(t *testing.T) {
	path := writeArtifactFile(t, donateABI)

	art, err := LoadArtifact("Campaign", path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}
	if _, ok := art.ABI.Methods["donate"]; !ok {
		t.Error("expected donate method in parsed ABI")
	}
	if art.HasBytecode() {
		t.Error("bare ABI must not carry bytecode")
	}
}

func TestLoadArtifactInvalid(t *testing.T) {
	path := writeArtifactFile(t, "not json at all")
	if _, err := LoadArtifact("Campaign", path); err == nil {
		t.Fatal("expected error for invalid artifact content")
	}

	if _, err := LoadArtifact("Campaign", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
