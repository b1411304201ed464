package vdp

const (
	satEntries   = 64
	satTerminate = 0xD0
)

// RenderFrame renders the full 256x192 active display into row-major RGB
// triples (256*192*3 bytes), using the per-line/per-frame scroll latches
// captured during TickCycles rather than the live register values, so a
// mid-frame write to R8 only affects scanlines from that point on.
func (v *VDP) RenderFrame() []byte {
	out := make([]byte, screenWidth*screenHeight*3)

	if v.reg[1]&0x40 == 0 { // display disabled: the whole frame is backdrop.
		r, g, b := v.cramRGB(v.backdropIndex())
		for i := 0; i < screenWidth*screenHeight; i++ {
			out[i*3], out[i*3+1], out[i*3+2] = r, g, b
		}
		return out
	}

	nameTableBase := uint16(v.reg[2]&0x0E) << 10
	topRowLock := v.reg[0]&0x40 != 0
	rightColLock := v.reg[0]&0x80 != 0

	var bgPriority [screenWidth]bool

	for y := 0; y < screenHeight; y++ {
		hScroll := v.lineHScroll[y]
		if topRowLock && y < 16 {
			hScroll = 0
		}

		for x := 0; x < screenWidth; x++ {
			vScroll := v.vScroll
			if rightColLock && x >= 192 {
				vScroll = 0
			}

			scrolledY := (y + int(vScroll)) % 224
			scrolledX := (x - int(hScroll) + 256) % 256

			tileRow := scrolledY / 8
			tileCol := (scrolledX / 8) % 32
			withinRow := uint8(scrolledY % 8)
			withinCol := uint8(scrolledX % 8)

			entryAddr := nameTableBase + uint16(tileRow*32+tileCol)*2
			lo := v.vram[entryAddr&(vramSize-1)]
			hi := v.vram[(entryAddr+1)&(vramSize-1)]

			tileNum := uint16(lo) | uint16(hi&0x01)<<8
			hFlip := hi&0x02 != 0
			vFlip := hi&0x04 != 0
			paletteSel := hi&0x08 != 0
			priority := hi&0x10 != 0

			patRow := withinRow
			if vFlip {
				patRow = 7 - withinRow
			}
			patAddr := tileNum*32 + uint16(patRow)*4
			ci := v.planeColorIndex(patAddr, withinCol, hFlip)

			bgPriority[x] = priority && ci != 0

			var cramIdx uint8
			if ci == 0 {
				cramIdx = v.backdropIndex()
			} else if paletteSel && !v.cfg.IgnoreBackgroundPaletteBit {
				cramIdx = 16 + ci
			} else {
				cramIdx = ci
			}
			r, g, b := v.cramRGB(cramIdx)
			i := (y*screenWidth + x) * 3
			out[i], out[i+1], out[i+2] = r, g, b
		}

		v.renderSpriteLine(out, y, bgPriority[:])
	}

	return out
}

// backdropIndex is the CRAM entry (0-15) selected by R7's low nibble, used
// wherever a background pixel is transparent (color index 0) or the
// display is disabled.
func (v *VDP) backdropIndex() uint8 {
	return v.reg[7] & 0x0F
}

// planeColorIndex reads the four Mode-4 bitplane bytes at patAddr and
// extracts the 4-bit color index for the pixel at withinCol (0-7, already
// accounting for horizontal flip via hFlip).
func (v *VDP) planeColorIndex(patAddr uint16, withinCol uint8, hFlip bool) uint8 {
	p0 := v.vram[patAddr&(vramSize-1)]
	p1 := v.vram[(patAddr+1)&(vramSize-1)]
	p2 := v.vram[(patAddr+2)&(vramSize-1)]
	p3 := v.vram[(patAddr+3)&(vramSize-1)]

	bit := 7 - withinCol
	if hFlip {
		bit = withinCol
	}
	shift := uint(bit)
	return (p0>>shift)&1 | ((p1>>shift)&1)<<1 | ((p2>>shift)&1)<<2 | ((p3>>shift)&1)<<3
}

// renderSpriteLine scans the SAT for sprites visible on scanline y, enforces
// the 8-sprites-per-line limit, and composites their pixels over the
// already-rendered background row in out.
func (v *VDP) renderSpriteLine(out []byte, y int, bgPriority []bool) {
	satBase := uint16(v.reg[5]&0x7E) << 7
	height := 8
	if v.reg[1]&0x02 != 0 {
		height = 16
	}
	mag := 1
	if v.reg[1]&0x01 != 0 {
		mag = 2
	}
	dispHeight := height * mag
	patternBase := uint16(0)
	if v.reg[6]&0x04 != 0 {
		patternBase = 0x2000
	}

	type candidate struct {
		index int
		top   int
	}
	var drawn [8]candidate
	count := 0
	for i := 0; i < satEntries; i++ {
		yByte := v.vram[(satBase+uint16(i))&(vramSize-1)]
		if yByte == satTerminate {
			break
		}
		top := int(yByte) + 1
		if y < top || y >= top+dispHeight {
			continue
		}
		if count == len(drawn) {
			v.status |= statusOverflow
			break
		}
		drawn[count] = candidate{index: i, top: top}
		count++
	}

	var spriteSet [screenWidth]bool
	var spriteColor [screenWidth]uint8

	for _, sp := range drawn[:count] {
		attrAddr := satBase + uint16(satEntries) + uint16(sp.index)*2
		x := int(v.vram[attrAddr&(vramSize-1)])
		pattern := v.vram[(attrAddr+1)&(vramSize-1)]
		if height == 16 {
			pattern &^= 0x01
		}

		rowInSprite := (y - sp.top) / mag
		tile := uint16(pattern)
		if height == 16 && rowInSprite >= 8 {
			tile++
			rowInSprite -= 8
		}
		patAddr := patternBase + tile*32 + uint16(rowInSprite)*4
		p0 := v.vram[patAddr&(vramSize-1)]
		p1 := v.vram[(patAddr+1)&(vramSize-1)]
		p2 := v.vram[(patAddr+2)&(vramSize-1)]
		p3 := v.vram[(patAddr+3)&(vramSize-1)]

		for col := 0; col < 8; col++ {
			shift := uint(7 - col)
			ci := (p0>>shift)&1 | ((p1>>shift)&1)<<1 | ((p2>>shift)&1)<<2 | ((p3>>shift)&1)<<3
			if ci == 0 {
				continue
			}
			for dup := 0; dup < mag; dup++ {
				screenX := x + col*mag + dup
				if screenX < 0 || screenX >= screenWidth {
					continue
				}
				if spriteSet[screenX] {
					v.status |= statusCollision
					continue
				}
				spriteSet[screenX] = true
				spriteColor[screenX] = ci + 16
			}
		}
	}

	for x := 0; x < screenWidth; x++ {
		if !spriteSet[x] || bgPriority[x] {
			continue
		}
		r, g, b := v.cramRGB(spriteColor[x])
		i := (y*screenWidth + x) * 3
		out[i], out[i+1], out[i+2] = r, g, b
	}
}

var paletteScale = [4]uint8{0, 85, 170, 255}

// cramRGB converts a 6-bit BGR CRAM entry (00BBGGRR) to 8-bit RGB.
func (v *VDP) cramRGB(index uint8) (r, g, b uint8) {
	c := v.cram[index&(cramSize-1)]
	r = paletteScale[c&0x03]
	g = paletteScale[(c>>2)&0x03]
	b = paletteScale[(c>>4)&0x03]
	return
}
