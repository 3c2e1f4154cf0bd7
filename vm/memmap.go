// This file is part of talon - https://github.com/talonlang/talon
//
// Copyright 2026 The talon authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// Memory-mapped addresses shared between the VM and its host driver. The
// read-only block is overwritten by the host once per frame and read by
// the running program; the writable block is written by the program and
// consumed by the host once per frame. Everything else in the address
// space is general-purpose and has no meaning to the host.
const (
	AddrPositionX = 0xFFFF
	AddrPositionY = 0xFFFE
	AddrRotation  = 0xFFFD

	// Seven ray pairs, descending from 0xFFFC to 0xFFEF.
	AddrRay0Dist = 0xFFFC
	AddrRay0Type = 0xFFFB
	AddrRay1Dist = 0xFFFA
	AddrRay1Type = 0xFFF9
	AddrRay2Dist = 0xFFF8
	AddrRay2Type = 0xFFF7
	AddrRay3Dist = 0xFFF6
	AddrRay3Type = 0xFFF5
	AddrRay4Dist = 0xFFF4
	AddrRay4Type = 0xFFF3
	AddrRay5Dist = 0xFFF2
	AddrRay5Type = 0xFFF1
	AddrRay6Dist = 0xFFF0
	AddrRay6Type = 0xFFEF

	AddrVelocityX = 0xFF1F
	AddrVelocityY = 0xFF1E
	AddrMoment    = 0xFF1D
)

// MemoryNames maps every predefined memory-mapped variable to its fixed
// address, the table the assembly parser consults to resolve a $NAME
// operand.
var MemoryNames = map[string]Cell{
	"$PositionX": AddrPositionX,
	"$PositionY": AddrPositionY,
	"$Rotation":  AddrRotation,

	"$Ray0Dist": AddrRay0Dist,
	"$Ray0Type": AddrRay0Type,
	"$Ray1Dist": AddrRay1Dist,
	"$Ray1Type": AddrRay1Type,
	"$Ray2Dist": AddrRay2Dist,
	"$Ray2Type": AddrRay2Type,
	"$Ray3Dist": AddrRay3Dist,
	"$Ray3Type": AddrRay3Type,
	"$Ray4Dist": AddrRay4Dist,
	"$Ray4Type": AddrRay4Type,
	"$Ray5Dist": AddrRay5Dist,
	"$Ray5Type": AddrRay5Type,
	"$Ray6Dist": AddrRay6Dist,
	"$Ray6Type": AddrRay6Type,

	"$VelocityX": AddrVelocityX,
	"$VelocityY": AddrVelocityY,
	"$Moment":    AddrMoment,
}

// ReadOnlyRange reports whether addr falls in the host-populated,
// program-read sensor block.
func ReadOnlyRange(addr Cell) bool {
	return addr >= AddrRay6Type && addr <= AddrPositionX
}

// WritableRange reports whether addr falls in the program-written,
// host-consumed actuator block.
func WritableRange(addr Cell) bool {
	return addr == AddrVelocityX || addr == AddrVelocityY || addr == AddrMoment
}
