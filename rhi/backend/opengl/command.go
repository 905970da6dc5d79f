// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/gles/gl"
	"github.com/fyuuforge/rhi/rhi/command"
)

var topologyTable = map[command.PrimitiveTopology]uint32{
	command.PointList:     gl.POINTS,
	command.LineList:      gl.LINES,
	command.LineStrip:     gl.LINE_STRIP,
	command.TriangleList:  gl.TRIANGLES,
	command.TriangleStrip: gl.TRIANGLE_STRIP,
}

// commandObject is the handle command.Object carries for this backend.
// There is no pool/allocator to reset: every GL call a recording issues
// runs immediately on device's render thread, so boundVertexBuffer and
// topology just remember enough state between calls to make the eventual
// Draw call correct (GL's draw entry points take vertex/index state that
// Vulkan and D3D12 instead bake into a bound-buffer + IA-state pair set
// ahead of time).
type commandObject struct {
	device   *logicalDevice
	topology uint32
	boundVB  *bufferResource
	vbStride uint32
}

func cmdHandle(handle any) (*commandObject, error) {
	co, ok := handle.(*commandObject)
	if !ok {
		return nil, fmt.Errorf("opengl: unexpected command handle %T", handle)
	}
	return co, nil
}

// BeginRecording is a no-op: there is no pool to reset. Reset (below)
// only clears the remembered topology and vertex buffer.
func (d *Driver) BeginRecording(handle any) error {
	_, err := cmdHandle(handle)
	return err
}

// EndRecording returns the commandObject itself as the published command
// list: there is nothing further to finalize since every call already
// executed against the GPU when recorded.
func (d *Driver) EndRecording(handle any) (any, error) {
	co, err := cmdHandle(handle)
	if err != nil {
		return nil, err
	}
	return co, nil
}

func (d *Driver) Reset(handle any) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	co.boundVB = nil
	co.topology = 0
	return nil
}

func (d *Driver) SetViewport(handle any, vp command.Viewport) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	return co.device.onThread(func() error {
		co.device.gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
		return nil
	})
}

func (d *Driver) SetScissorRect(handle any, r command.Rect) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	return co.device.onThread(func() error {
		co.device.gl.Enable(gl.SCISSOR_TEST)
		co.device.gl.Scissor(r.X, r.Y, r.Width, r.Height)
		return nil
	})
}

// Barrier is a no-op: this backend has no compute shaders in scope and
// no explicit buffer/image barrier object the way Vulkan's
// VkBufferMemoryBarrier or D3D12's D3D12_RESOURCE_BARRIER are — a driver
// implicitly orders GL calls issued on the one context/thread that
// touches them.
func (d *Driver) Barrier(handle any, resource any, before, after command.ResourceState) error {
	_, err := cmdHandle(handle)
	return err
}

// BeginRenderPass binds the default framebuffer (output is always the
// swap chain's single renderTarget) and clears it — OpenGL has no
// render-pass object of its own, so there is nothing else to bracket.
func (d *Driver) BeginRenderPass(handle any, output any, clearRGBA [4]float32) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	if _, ok := output.(*renderTarget); !ok {
		return fmt.Errorf("opengl: BeginRenderPass: unexpected output %T", output)
	}
	return co.device.onThread(func() error {
		co.device.gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		co.device.gl.ClearColor(clearRGBA[0], clearRGBA[1], clearRGBA[2], clearRGBA[3])
		co.device.gl.Clear(gl.COLOR_BUFFER_BIT)
		return nil
	})
}

func (d *Driver) EndRenderPass(handle any, output any) error {
	_, err := cmdHandle(handle)
	return err
}

func (d *Driver) BindVertexBuffer(handle any, bufferAny any, desc command.VertexDesc) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	buf, ok := bufferAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("opengl: BindVertexBuffer: unexpected buffer %T", bufferAny)
	}
	co.boundVB = buf
	co.vbStride = desc.Stride
	return co.device.onThread(func() error {
		// Re-upload the buffer's shadow range before use: MapAndWrite only
		// writes the CPU-side shadow, see resource.go's doc comment.
		buf.upload()
		ctx := co.device.gl
		ctx.BindBuffer(gl.ARRAY_BUFFER, buf.glBuffer)
		ctx.EnableVertexAttribArray(desc.Slot)
		ctx.VertexAttribPointer(desc.Slot, 4, gl.FLOAT, false, int32(desc.Stride), 0)
		return nil
	})
}

func (d *Driver) SetPrimitiveTopology(handle any, t command.PrimitiveTopology) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	mode, ok := topologyTable[t]
	if !ok {
		return fmt.Errorf("opengl: SetPrimitiveTopology: unknown topology %d", t)
	}
	co.topology = mode
	return nil
}

// Draw issues DrawElements, or DrawElementsInstanced when
// instanceCount>1, always with UNSIGNED_INT indices. baseVertex and
// startInstance have no equivalent among gl.Context's draw calls
// (glDrawElementsBaseVertex
// and glDrawElementsInstancedBaseInstance are not bound on gl.Context),
// so a nonzero value in either is rejected rather than silently ignored.
func (d *Driver) Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	if baseVertex != 0 || startInstance != 0 {
		return fmt.Errorf("opengl: Draw: baseVertex/startInstance are not supported by this backend's GL binding")
	}
	if instanceCount == 0 {
		instanceCount = 1
	}
	topology := co.topology
	return co.device.onThread(func() error {
		ctx := co.device.gl
		indices := uintptr(startIndex) * 4
		if instanceCount > 1 {
			ctx.DrawElementsInstanced(topology, int32(indexCount), gl.UNSIGNED_INT, indices, int32(instanceCount))
		} else {
			ctx.DrawElements(topology, int32(indexCount), gl.UNSIGNED_INT, indices)
		}
		return nil
	})
}

// Clear clears output to rgba, honoring a non-empty rect via
// SCISSOR_TEST the way D3D12's Clear honors its own rect parameter.
func (d *Driver) Clear(handle any, output any, rgba [4]float32, rect command.Rect) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	if _, ok := output.(*renderTarget); !ok {
		return fmt.Errorf("opengl: Clear: unexpected output %T", output)
	}
	return co.device.onThread(func() error {
		ctx := co.device.gl
		ctx.BindFramebuffer(gl.FRAMEBUFFER, 0)
		scissored := rect.Width > 0 && rect.Height > 0
		if scissored {
			ctx.Enable(gl.SCISSOR_TEST)
			ctx.Scissor(rect.X, rect.Y, rect.Width, rect.Height)
		}
		ctx.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
		ctx.Clear(gl.COLOR_BUFFER_BIT)
		if scissored {
			ctx.Disable(gl.SCISSOR_TEST)
		}
		return nil
	})
}

// Copy delegates to the same CPU-shadow copy-then-upload path
// CopyBufferToBuffer uses outside of command recording.
func (d *Driver) Copy(handle any, src, dst any) error {
	co, err := cmdHandle(handle)
	if err != nil {
		return err
	}
	srcBuf, ok := src.(*bufferResource)
	if !ok {
		return fmt.Errorf("opengl: Copy: unexpected src %T", src)
	}
	dstBuf, ok := dst.(*bufferResource)
	if !ok {
		return fmt.Errorf("opengl: Copy: unexpected dst %T", dst)
	}
	size := srcBuf.size
	if dstBuf.size < size {
		size = dstBuf.size
	}
	return co.device.onThread(func() error {
		copy(dstBuf.shadow[dstBuf.offset:dstBuf.offset+size], srcBuf.shadow[srcBuf.offset:srcBuf.offset+size])
		dstBuf.upload()
		return nil
	})
}
