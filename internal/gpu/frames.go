//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// closeTimeout bounds how long Close waits for in-flight frames.
const closeTimeout = 5 * time.Second

type inflightFrame struct {
	value uint64
	cmd   hal.CommandBuffer
}

// retiredResource is destroyed once the fence passes after.
type retiredResource struct {
	after   uint64
	destroy func()
}

// frameTracker numbers submissions on a single fence and reclaims what they
// used once the GPU is done with it.
//
// Fence values grow by one per submit, so frames complete in order and the
// oldest in-flight frame is the only one worth polling.
type frameTracker struct {
	fence     hal.Fence
	submitted uint64
	completed uint64
	inflight  []inflightFrame
	retired   []retiredResource
}

func (f *frameTracker) init(device hal.Device) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	f.fence = fence
	return nil
}

// submit queues cmd and returns the fence value it will signal. It does not
// wait.
func (f *frameTracker) submit(queue hal.Queue, cmd hal.CommandBuffer) (uint64, error) {
	value := f.submitted + 1
	if err := queue.Submit([]hal.CommandBuffer{cmd}, f.fence, value); err != nil {
		return 0, fmt.Errorf("submit: %w", err)
	}
	f.submitted = value
	f.inflight = append(f.inflight, inflightFrame{value: value, cmd: cmd})
	return value, nil
}

// retire schedules destroy to run once every submission up to after has
// completed. It runs immediately when that is already the case.
func (f *frameTracker) retire(after uint64, destroy func()) {
	if after <= f.completed {
		destroy()
		return
	}
	f.retired = append(f.retired, retiredResource{after: after, destroy: destroy})
}

// poll reclaims finished frames without blocking.
func (f *frameTracker) poll(device hal.Device) error {
	return f.reclaim(device, 0)
}

// drain waits up to timeout for every submitted frame.
func (f *frameTracker) drain(device hal.Device, timeout time.Duration) error {
	if err := f.reclaim(device, timeout); err != nil {
		return err
	}
	if len(f.inflight) > 0 {
		return fmt.Errorf("gpu: %d frames still in flight after %v", len(f.inflight), timeout)
	}
	return nil
}

func (f *frameTracker) reclaim(device hal.Device, timeout time.Duration) error {
	for f.fence != nil && len(f.inflight) > 0 {
		head := f.inflight[0]
		done, err := device.Wait(f.fence, head.value, timeout)
		if err != nil {
			return fmt.Errorf("poll fence: %w", err)
		}
		if !done {
			break
		}
		device.FreeCommandBuffer(head.cmd)
		f.completed = head.value
		f.inflight = f.inflight[1:]
	}

	kept := f.retired[:0]
	for _, r := range f.retired {
		if r.after <= f.completed {
			r.destroy()
			continue
		}
		kept = append(kept, r)
	}
	clear(f.retired[len(kept):])
	f.retired = kept
	return nil
}

// destroy frees everything still tracked. The caller must have drained the
// queue, or accepted that it could not.
func (f *frameTracker) destroy(device hal.Device) {
	for _, fr := range f.inflight {
		device.FreeCommandBuffer(fr.cmd)
	}
	f.inflight = nil
	for _, r := range f.retired {
		r.destroy()
	}
	f.retired = nil
	if f.fence != nil {
		device.DestroyFence(f.fence)
		f.fence = nil
	}
}
