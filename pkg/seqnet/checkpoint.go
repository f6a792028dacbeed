package seqnet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CheckpointFormat identifies checkpoint files written by this package.
const CheckpointFormat = "dermoscan-checkpoint-v1"

// TensorData is a named dataset inside a checkpoint group.
type TensorData struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

type layerConfig struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Filters    int     `json:"filters,omitempty"`
	KernelSize int     `json:"kernel_size,omitempty"`
	InChannels int     `json:"in_channels,omitempty"`
	PoolSize   int     `json:"pool_size,omitempty"`
	Units      int     `json:"units,omitempty"`
	InFeatures int     `json:"in_features,omitempty"`
	Activation string  `json:"activation,omitempty"`
	Rate       float64 `json:"rate,omitempty"`
}

type modelConfig struct {
	InputShape []int         `json:"input_shape"`
	Layers     []layerConfig `json:"layers"`
}

type checkpointFile struct {
	Format string      `json:"format"`
	Config modelConfig `json:"config"`
	// ModelWeights maps layer name -> dataset name -> tensor, mirroring
	// the group/dataset nesting of an HDF5 weight file.
	ModelWeights map[string]map[string]TensorData `json:"model_weights"`
}

// Save writes the model's architecture and weights to path as JSON,
// creating parent directories as needed.
func Save(m *Model, path string) error {
	ckpt := checkpointFile{
		Format:       CheckpointFormat,
		Config:       modelConfig{InputShape: m.InputShape},
		ModelWeights: make(map[string]map[string]TensorData),
	}

	for _, l := range m.Layers {
		cfg, err := configFor(l)
		if err != nil {
			return err
		}
		ckpt.Config.Layers = append(ckpt.Config.Layers, cfg)

		w := l.Weights()
		if len(w) == 0 {
			continue
		}
		group := make(map[string]TensorData, len(w))
		names := []string{"kernel", "bias"}
		for i, t := range w {
			group[names[i]] = TensorData{Shape: t.Shape, Data: t.Data}
		}
		ckpt.ModelWeights[l.Name()] = group
	}

	data, err := json.Marshal(ckpt)
	if err != nil {
		return fmt.Errorf("seqnet: marshal checkpoint: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("seqnet: create checkpoint directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("seqnet: write checkpoint: %w", err)
	}
	return nil
}

// Load reads a checkpoint written by Save, rebuilds the architecture from
// its config and assigns the stored weights.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seqnet: read checkpoint: %w", err)
	}

	var ckpt checkpointFile
	if err := json.Unmarshal(data, &ckpt); err != nil {
		return nil, fmt.Errorf("seqnet: parse checkpoint: %w", err)
	}
	if ckpt.Format != CheckpointFormat {
		return nil, fmt.Errorf("seqnet: unknown checkpoint format %q", ckpt.Format)
	}

	m := NewModel(ckpt.Config.InputShape...)
	for _, cfg := range ckpt.Config.Layers {
		l, err := layerFrom(cfg)
		if err != nil {
			return nil, err
		}
		m.Add(l)
	}

	for name, group := range ckpt.ModelWeights {
		l := m.Layer(name)
		if l == nil {
			return nil, fmt.Errorf("seqnet: checkpoint has weights for unknown layer %q", name)
		}
		w := make([]*Tensor, 0, 2)
		for _, dataset := range []string{"kernel", "bias"} {
			td, ok := group[dataset]
			if !ok {
				continue
			}
			t, err := NewTensorFrom(td.Data, td.Shape...)
			if err != nil {
				return nil, fmt.Errorf("seqnet: layer %s %s: %w", name, dataset, err)
			}
			w = append(w, t)
		}
		if err := l.SetWeights(w); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func configFor(l Layer) (layerConfig, error) {
	switch v := l.(type) {
	case *Conv2D:
		act := ActivationLinear
		if v.ReLU {
			act = ActivationReLU
		}
		return layerConfig{
			Type: "conv2d", Name: v.LayerName,
			Filters: v.Filters, KernelSize: v.KernelSize,
			InChannels: v.InChannels, Activation: act,
		}, nil
	case *MaxPool2D:
		return layerConfig{Type: "max_pool2d", Name: v.LayerName, PoolSize: v.PoolSize}, nil
	case *Flatten:
		return layerConfig{Type: "flatten", Name: v.LayerName}, nil
	case *Dense:
		return layerConfig{
			Type: "dense", Name: v.LayerName,
			Units: v.Units, InFeatures: v.InFeatures, Activation: v.Activation,
		}, nil
	case *Dropout:
		return layerConfig{Type: "dropout", Name: v.LayerName, Rate: v.Rate}, nil
	default:
		return layerConfig{}, fmt.Errorf("seqnet: cannot serialize layer type %T", l)
	}
}

func layerFrom(cfg layerConfig) (Layer, error) {
	switch cfg.Type {
	case "conv2d":
		return NewConv2D(cfg.Name, cfg.Filters, cfg.KernelSize, cfg.InChannels, cfg.Activation == ActivationReLU), nil
	case "max_pool2d":
		return NewMaxPool2D(cfg.Name, cfg.PoolSize), nil
	case "flatten":
		return NewFlatten(cfg.Name), nil
	case "dense":
		return NewDense(cfg.Name, cfg.Units, cfg.InFeatures, cfg.Activation), nil
	case "dropout":
		return NewDropout(cfg.Name, cfg.Rate), nil
	default:
		return nil, fmt.Errorf("seqnet: unknown layer type %q", cfg.Type)
	}
}
