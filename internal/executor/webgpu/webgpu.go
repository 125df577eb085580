//go:build windows

// Package webgpu implements the offload executor on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/maya-ml/patterncore/internal/executor"
)

// Executor runs the element-wise programs as WGSL compute shaders. Shader
// modules and pipelines are compiled once and cached; buffer handles map to
// GPU storage buffers read back through a staging buffer.
type Executor struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu        sync.RWMutex
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline

	bufMu   sync.Mutex
	next    executor.Handle
	buffers map[executor.Handle]*gpuBuffer
}

type gpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

// Compile-time check that Executor implements executor.Executor.
var _ executor.Executor = (*Executor)(nil)

// New creates a WebGPU executor.
// Returns an error if WebGPU is not available or initialization fails.
func New() (e *Executor, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			e = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Executor{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		buffers:   make(map[executor.Handle]*gpuBuffer),
	}, nil
}

// Name identifies the backend.
func (e *Executor) Name() string {
	return "webgpu"
}

// Allocate reserves a GPU storage buffer.
func (e *Executor) Allocate(byteSize int) (executor.Handle, error) {
	if byteSize < 0 {
		return executor.InvalidHandle, fmt.Errorf("negative buffer size %d", byteSize)
	}
	buf := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  uint64(byteSize),
	})

	e.bufMu.Lock()
	defer e.bufMu.Unlock()
	e.next++
	h := e.next
	e.buffers[h] = &gpuBuffer{buf: buf, size: uint64(byteSize)}
	return h, nil
}

// Upload writes host bytes into the GPU buffer through a staging buffer
// created mapped, then copied on the queue.
func (e *Executor) Upload(h executor.Handle, data []byte) error {
	gb, err := e.lookup(h)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if uint64(len(data)) != gb.size {
		return fmt.Errorf("upload: %w: buffer %d bytes, data %d bytes",
			executor.ErrSizeMismatch, gb.size, len(data))
	}
	if gb.size == 0 {
		return nil
	}

	staging := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             gb.size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()
	mappedPtr := staging.GetMappedRange(0, gb.size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), gb.size), data)
	staging.Unmap()

	encoder := e.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, gb.buf, 0, gb.size)
	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)
	return nil
}

// Download reads the GPU buffer back to the host through a staging buffer,
// since storage buffers cannot be mapped directly.
func (e *Executor) Download(h executor.Handle) ([]byte, error) {
	gb, err := e.lookup(h)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}

	staging := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  gb.size,
	})
	defer staging.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(gb.buf, 0, staging, 0, gb.size)
	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(e.device, wgpu.MapModeRead, 0, gb.size); err != nil {
		return nil, fmt.Errorf("download: failed to map staging buffer: %w", err)
	}
	mappedPtr := staging.GetMappedRange(0, gb.size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), gb.size)
	out := make([]byte, gb.size)
	copy(out, mapped)
	staging.Unmap()
	return out, nil
}

// Release frees the GPU buffer.
func (e *Executor) Release(h executor.Handle) error {
	e.bufMu.Lock()
	defer e.bufMu.Unlock()
	gb, ok := e.buffers[h]
	if !ok {
		return fmt.Errorf("release: %w: %d", executor.ErrUnknownHandle, h)
	}
	gb.buf.Release()
	delete(e.buffers, h)
	return nil
}

// Dispatch binds the buffers in program order, appends the size uniform, and
// runs one compute pass over the given workgroup grid.
func (e *Executor) Dispatch(p executor.Program, buffers []executor.Handle, groups [3]uint32) error {
	name, code, arity, err := programShader(p)
	if err != nil {
		return err
	}
	if len(buffers) != arity {
		return fmt.Errorf("dispatch %s: %w: want %d, got %d", p, executor.ErrBadArity, arity, len(buffers))
	}

	bound := make([]*gpuBuffer, len(buffers))
	for i, h := range buffers {
		gb, err := e.lookup(h)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", p, err)
		}
		bound[i] = gb
	}
	// The result buffer is bound last; its element count sizes the pass.
	resultElems := bound[len(bound)-1].size / 4

	shader := e.compileShader(name, code)
	pipeline := e.getOrCreatePipeline(name, shader)

	// Uniform buffers require 16-byte alignment for struct fields.
	params := make([]byte, 16)
	//nolint:gosec // G115: element counts fit in u32 for supported buffer sizes
	binary.LittleEndian.PutUint32(params[0:4], uint32(resultElems))
	paramsBuf := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             16,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := paramsBuf.GetMappedRange(0, 16)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), 16), params)
	paramsBuf.Unmap()
	defer paramsBuf.Release()

	entries := make([]wgpu.BindGroupEntry, 0, len(bound)+1)
	for i, gb := range bound {
		//nolint:gosec // G115: binding index is small and non-negative
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), gb.buf, 0, gb.size))
	}
	//nolint:gosec // G115: binding index is small and non-negative
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(bound)), paramsBuf, 0, 16))

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := e.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)
	return nil
}

// programShader maps a program to its shader source and buffer arity
// (excluding the params uniform, which Dispatch appends itself).
func programShader(p executor.Program) (name, code string, arity int, err error) {
	switch p {
	case executor.ProgramAdd:
		return "add", addShader, 3, nil
	case executor.ProgramMul:
		return "mul", mulShader, 3, nil
	case executor.ProgramReLU:
		return "relu", reluShader, 2, nil
	case executor.ProgramScale:
		return "scale", scaleShader, 3, nil
	default:
		return "", "", 0, fmt.Errorf("%w: %d", executor.ErrUnknownProgram, int(p))
	}
}

func (e *Executor) lookup(h executor.Handle) (*gpuBuffer, error) {
	e.bufMu.Lock()
	defer e.bufMu.Unlock()
	gb, ok := e.buffers[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", executor.ErrUnknownHandle, h)
	}
	return gb, nil
}

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Executor's shaders map.
func (e *Executor) compileShader(name, code string) *wgpu.ShaderModule {
	e.mu.RLock()
	if shader, exists := e.shaders[name]; exists {
		e.mu.RUnlock()
		return shader
	}
	e.mu.RUnlock()

	shader := e.device.CreateShaderModuleWGSL(code)

	e.mu.Lock()
	e.shaders[name] = shader
	e.mu.Unlock()
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (e *Executor) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	e.mu.RLock()
	if pipeline, exists := e.pipelines[name]; exists {
		e.mu.RUnlock()
		return pipeline
	}
	e.mu.RUnlock()

	pipeline := e.device.CreateComputePipelineSimple(nil, shader, "main")

	e.mu.Lock()
	e.pipelines[name] = pipeline
	e.mu.Unlock()
	return pipeline
}

// Close releases every outstanding buffer and the device objects.
func (e *Executor) Close() {
	e.bufMu.Lock()
	for h, gb := range e.buffers {
		gb.buf.Release()
		delete(e.buffers, h)
	}
	e.bufMu.Unlock()

	e.queue.Release()
	e.device.Release()
	e.adapter.Release()
	e.instance.Release()
}
