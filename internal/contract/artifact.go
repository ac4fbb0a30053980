package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact 合约编译产物（ABI + 字节码）
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// LoadArtifact 从文件加载合约编译产物
// 支持完整编译输出（{"abi": [...], "bytecode": "0x..."}）和裸ABI数组两种格式
func LoadArtifact(name, path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact from %s: %w", path, err)
	}

	// 尝试解析为完整的编译输出文件
	var compiledOutput struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	var parsedABI abi.ABI
	var bytecode []byte

	if err := json.Unmarshal(data, &compiledOutput); err == nil && compiledOutput.ABI != nil {
		// 从编译输出中提取ABI
		parsedABI, err = abi.JSON(bytes.NewReader(compiledOutput.ABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI from compiled output: %w", err)
		}
		if compiledOutput.Bytecode != "" {
			bytecode = common.FromHex(strings.TrimSpace(compiledOutput.Bytecode))
		}
	} else {
		// 如果不是完整编译输出，尝试直接解析为ABI数组
		parsedABI, err = abi.JSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI: %w", err)
		}
	}

	return &Artifact{
		Name:     name,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}, nil
}

// HasBytecode 是否包含可部署的字节码
func (a *Artifact) HasBytecode() bool {
	return len(a.Bytecode) > 0
}
