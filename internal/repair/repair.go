package repair

import (
	"fmt"
	"os"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

// LayerMapping lists legacy name fragments that may identify a layer's
// weights in an old export, in priority order. The first shape-compatible
// match wins.
type LayerMapping struct {
	Layer     string
	Fragments []string
}

// DefaultNameTable maps the rebuilt Conv2D architecture to the Conv3D
// layer names a prior export may have used. Kept as an explicit ordered
// table so matching behavior stays auditable.
var DefaultNameTable = []LayerMapping{
	{Layer: "conv2d_1", Fragments: []string{"conv3d", "conv3d_1", "conv3d_2"}},
	{Layer: "conv2d_2", Fragments: []string{"conv3d_3", "conv3d_4"}},
	{Layer: "conv2d_3", Fragments: []string{"conv3d_5", "conv3d_6"}},
	{Layer: "dense_1", Fragments: []string{"dense", "dense_1", "dense_2"}},
	{Layer: "dense_2", Fragments: []string{"dense_3", "dense_4"}},
	{Layer: "output", Fragments: []string{"dense_5", "dense_6", "output"}},
}

// Result summarizes one repair run. NotFound layers kept their random
// initialization; this is surfaced, never treated as silent success.
type Result struct {
	Extracted int
	Injected  []string
	Converted []string
	NotFound  []string
}

// SliceMiddleDepth reduces a 5-D Conv3D kernel (depth, h, w, in, out) to
// a 4-D Conv2D kernel (h, w, in, out) by taking the single slice at the
// middle depth index. This is a lossy salvage heuristic, not a
// correctness-preserving conversion.
func SliceMiddleDepth(t ExtractedTensor) (*seqnet.Tensor, error) {
	if len(t.Shape) != 5 {
		return nil, fmt.Errorf("repair: expected 5-D kernel, got shape %v", t.Shape)
	}
	depth := t.Shape[0]
	if depth < 1 {
		return nil, fmt.Errorf("repair: invalid depth %d in shape %v", depth, t.Shape)
	}

	sliceLen := t.Shape[1] * t.Shape[2] * t.Shape[3] * t.Shape[4]
	mid := depth / 2
	out := seqnet.NewTensor(t.Shape[1], t.Shape[2], t.Shape[3], t.Shape[4])
	copy(out.Data, t.Data[mid*sliceLen:(mid+1)*sliceLen])
	return out, nil
}

// InjectWeights walks the mapping table and copies the first
// shape-compatible extracted tensor into each layer's kernel, converting
// 5-D Conv3D kernels along the way. A matched kernel's sibling bias is
// injected too when its shape fits.
func InjectWeights(model *seqnet.Model, tensors []ExtractedTensor, table []LayerMapping) *Result {
	res := &Result{Extracted: len(tensors)}

	for _, mapping := range table {
		layer := model.Layer(mapping.Layer)
		if layer == nil || len(layer.Weights()) == 0 {
			continue
		}

		injected, converted := tryInject(layer, tensors, mapping.Fragments)
		switch {
		case injected && converted:
			res.Injected = append(res.Injected, mapping.Layer)
			res.Converted = append(res.Converted, mapping.Layer)
			log.Infof("[Repair] %s: Conv3D kernel converted and injected", mapping.Layer)
		case injected:
			res.Injected = append(res.Injected, mapping.Layer)
			log.Infof("[Repair] %s: weights injected directly", mapping.Layer)
		default:
			res.NotFound = append(res.NotFound, mapping.Layer)
			log.Warnf("[Repair] %s: no matching weights found, keeping random initialization", mapping.Layer)
		}
	}
	return res
}

func tryInject(layer seqnet.Layer, tensors []ExtractedTensor, fragments []string) (injected, converted bool) {
	kernelShape := layer.Weights()[0].Shape
	biasShape := layer.Weights()[1].Shape

	for _, fragment := range fragments {
		for _, t := range tensors {
			if !matchesFragment(t.Path, fragment) {
				continue
			}

			candidate, wasConverted, err := kernelCandidate(t, kernelShape)
			if err != nil || candidate == nil {
				continue
			}
			if err := layer.SetWeights([]*seqnet.Tensor{candidate}); err != nil {
				continue
			}

			if bias := findSiblingBias(t, tensors, biasShape); bias != nil {
				_ = layer.SetWeights([]*seqnet.Tensor{nil, bias})
			}
			return true, wasConverted
		}
	}
	return false, false
}

// kernelCandidate shapes an extracted tensor for the target kernel,
// applying the Conv3D depth-slice conversion when needed. Incompatible
// shapes return nil without error so the search continues.
func kernelCandidate(t ExtractedTensor, want []int) (*seqnet.Tensor, bool, error) {
	if len(t.Shape) == 5 {
		sliced, err := SliceMiddleDepth(t)
		if err != nil {
			return nil, false, err
		}
		if !sliced.ShapeEquals(want) {
			return nil, false, nil
		}
		return sliced, true, nil
	}

	if len(t.Shape) != len(want) {
		return nil, false, nil
	}
	candidate, err := seqnet.NewTensorFrom(t.Data, t.Shape...)
	if err != nil {
		return nil, false, err
	}
	if !candidate.ShapeEquals(want) {
		return nil, false, nil
	}
	return candidate, false, nil
}

// findSiblingBias looks for a 1-D tensor in the same checkpoint group as
// the matched kernel whose shape fits the layer's bias.
func findSiblingBias(kernel ExtractedTensor, tensors []ExtractedTensor, want []int) *seqnet.Tensor {
	group := path.Dir(kernel.Path)
	for _, t := range tensors {
		if t.Path == kernel.Path || path.Dir(t.Path) != group {
			continue
		}
		if len(t.Shape) != 1 || t.Shape[0] != want[0] {
			continue
		}
		bias, err := seqnet.NewTensorFrom(t.Data, t.Shape...)
		if err != nil {
			continue
		}
		return bias
	}
	return nil
}

// Run performs a full repair: extract, rebuild, inject, smoke-test,
// persist. Any failure aborts without writing dstPath.
func Run(srcPath, dstPath string) (*Result, error) {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("repair: read source checkpoint: %w", err)
	}

	log.Info("[Repair] Exploring checkpoint structure of ", srcPath)
	tensors, err := ExtractTensors(raw)
	if err != nil {
		return nil, err
	}
	if len(tensors) == 0 {
		return nil, fmt.Errorf("repair: no weight tensors found in %s", srcPath)
	}
	for _, t := range tensors {
		log.Debugf("[Repair] found %s shape=%v", t.Path, t.Shape)
	}
	log.Infof("[Repair] Extracted %d weight tensors", len(tensors))

	model, err := classifier.LesionNet(classifier.ModelInputHeight, classifier.ModelInputWidth, len(classifier.Labels))
	if err != nil {
		return nil, err
	}
	log.Info("[Repair] Rebuilt Conv2D architecture")

	res := InjectWeights(model, tensors, DefaultNameTable)
	log.Infof("[Repair] %d layers received salvaged weights, %d kept random initialization",
		len(res.Injected), len(res.NotFound))

	// Smoke test: the rebuilt model must at least execute. This says
	// nothing about matching the original model's behavior.
	out, err := model.Forward(seqnet.RandomTensor(model.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("repair: smoke test failed: %w", err)
	}
	if len(out.Data) != len(classifier.Labels) {
		return nil, fmt.Errorf("repair: smoke test produced %d outputs, want %d", len(out.Data), len(classifier.Labels))
	}
	log.Info("[Repair] Smoke test passed")

	if err := seqnet.Save(model, dstPath); err != nil {
		return nil, err
	}
	log.Info("[Repair] Corrected model written to ", dstPath)
	return res, nil
}
