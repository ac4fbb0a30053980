package ethereum

import (
	"strings"
	"testing"

	"github.com/blues/dgs/internal/apperr"
)

// BIP39 测试向量里的合法助记词
const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func TestCreateAccountDeterministicFromMnemonic(t *testing.T) {
	c := &Client{}

	addr1, key1, err := c.CreateAccount(testMnemonic)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	addr2, key2, err := c.CreateAccount(testMnemonic)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if addr1 != addr2 || key1 != key2 {
		t.Error("expected identical keypair for the same mnemonic")
	}
	if !strings.HasPrefix(addr1, "0x") || len(addr1) != 42 {
		t.Errorf("unexpected address format: %s", addr1)
	}
	if strings.HasPrefix(key1, "0x") || len(key1) != 64 {
		t.Errorf("unexpected key encoding, length %d", len(key1))
	}
}

func TestCreateAccountRejectsInvalidMnemonic(t *testing.T) {
	c := &Client{}

	_, _, err := c.CreateAccount("definitely not twelve valid bip39 words in here at all ok")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateAccountRandomKeysDiffer(t *testing.T) {
	c := &Client{}

	addr1, key1, err := c.CreateAccount("")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	addr2, key2, err := c.CreateAccount("")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if addr1 == addr2 || key1 == key2 {
		t.Error("expected distinct random keypairs")
	}
}
