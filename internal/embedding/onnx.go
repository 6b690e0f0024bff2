// ABOUTME: Local sentence-transformer encoder running an ONNX model
// ABOUTME: Tokenizes with a HuggingFace tokenizer.json, mean-pools and L2-normalizes
package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/harper/course-recommender/internal/util"
)

// ONNXConfig locates the runtime, model, and tokenizer
type ONNXConfig struct {
	LibraryPath   string
	ModelPath     string
	TokenizerPath string
	ModelID       string
	MaxSeqLen     int
	HiddenSize    int
}

// ONNXEncoder runs a transformer encoder in-process. The session has a fixed
// [1, MaxSeqLen] input shape; shorter inputs are padded and masked.
type ONNXEncoder struct {
	mu  sync.Mutex
	cfg ONNXConfig

	tk      *tokenizer.Tokenizer
	session *ort.AdvancedSession
	inputs  map[string]*ort.Tensor[int64]
	output  *ort.Tensor[float32]
	inited  bool
}

// NewONNXEncoder creates an encoder that loads its model on first use
func NewONNXEncoder(cfg ONNXConfig) *ONNXEncoder {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 256
	}
	if cfg.HiddenSize <= 0 {
		cfg.HiddenSize = 768
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "onnx"
	}
	return &ONNXEncoder{cfg: cfg}
}

// ModelID returns the configured model name
func (e *ONNXEncoder) ModelID() string {
	return e.cfg.ModelID
}

// initLocked loads the tokenizer, the runtime, and the session. Callers hold mu.
func (e *ONNXEncoder) initLocked() error {
	if e.inited {
		return nil
	}

	tk, err := pretrained.FromFile(e.cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}

	if e.cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(e.cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("onnx init environment: %w", err)
		}
	}

	infos, outputs, err := ort.GetInputOutputInfo(e.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(infos) == 0 || len(outputs) == 0 {
		return fmt.Errorf("onnx model has no inputs or outputs")
	}

	shape := ort.NewShape(1, int64(e.cfg.MaxSeqLen))
	inputs := make(map[string]*ort.Tensor[int64], len(infos))
	inputNames := make([]string, len(infos))
	inputValues := make([]ort.Value, len(infos))
	for i, info := range infos {
		t, err := ort.NewEmptyTensor[int64](shape)
		if err != nil {
			destroyTensors(inputs)
			return fmt.Errorf("onnx new %s tensor: %w", info.Name, err)
		}
		inputs[info.Name] = t
		inputNames[i] = info.Name
		inputValues[i] = t
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(e.cfg.MaxSeqLen), int64(e.cfg.HiddenSize)))
	if err != nil {
		destroyTensors(inputs)
		return fmt.Errorf("onnx new output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(e.cfg.ModelPath, inputNames, []string{outputs[0].Name},
		inputValues, []ort.Value{output}, nil)
	if err != nil {
		output.Destroy()
		destroyTensors(inputs)
		return fmt.Errorf("onnx new session: %w", err)
	}

	e.tk = tk
	e.inputs = inputs
	e.output = output
	e.session = session
	e.inited = true
	return nil
}

// Embed encodes text into a unit-length sentence vector
func (e *ONNXEncoder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initLocked(); err != nil {
		return nil, err
	}

	enc, err := e.tk.EncodeSingle(util.NormalizeText(text), true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids, mask := padTokens(enc.Ids, enc.AttentionMask, e.cfg.MaxSeqLen)

	for name, t := range e.inputs {
		data := t.GetData()
		switch name {
		case "input_ids":
			copy(data, ids)
		case "attention_mask":
			copy(data, mask)
		default:
			clear(data)
		}
	}

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	vec := meanPool(e.output.GetData(), mask, e.cfg.HiddenSize)
	l2Normalize(vec)
	return vec, nil
}

// Close releases the session and tensors
func (e *ONNXEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.inited {
		return nil
	}
	err := e.session.Destroy()
	e.output.Destroy()
	destroyTensors(e.inputs)
	e.inited = false
	return err
}

func destroyTensors(ts map[string]*ort.Tensor[int64]) {
	for _, t := range ts {
		_ = t.Destroy()
	}
}

// padTokens truncates to maxLen, keeping the final special token, and zero-pads
func padTokens(ids, mask []int, maxLen int) ([]int64, []int64) {
	outIDs := make([]int64, maxLen)
	outMask := make([]int64, maxLen)

	n := len(ids)
	if n > maxLen {
		for i := 0; i < maxLen-1; i++ {
			outIDs[i] = int64(ids[i])
			outMask[i] = 1
		}
		outIDs[maxLen-1] = int64(ids[n-1])
		outMask[maxLen-1] = 1
		return outIDs, outMask
	}

	for i := 0; i < n; i++ {
		outIDs[i] = int64(ids[i])
		if i < len(mask) {
			outMask[i] = int64(mask[i])
		} else {
			outMask[i] = 1
		}
	}
	return outIDs, outMask
}

// meanPool averages the hidden states of unmasked tokens
func meanPool(hidden []float32, mask []int64, hiddenSize int) []float64 {
	out := make([]float64, hiddenSize)
	var count float64
	for tok, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[tok*hiddenSize : (tok+1)*hiddenSize]
		for j, v := range row {
			out[j] += float64(v)
		}
		count++
	}
	if count == 0 {
		return out
	}
	for j := range out {
		out[j] /= count
	}
	return out
}

func l2Normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
}
