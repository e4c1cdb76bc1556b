// internal/sensor/modbus/registers.go
package modbus

// RFID gateway register map.
// These values define the gateway protocol and MUST NOT be configurable.

// ---- HOLDING REGISTERS (commands) ----

// RegCommand accepts one command per write.
const RegCommand = 0

const (
	CmdReset     uint16 = 1
	CmdPowerDown uint16 = 2
	CmdConfigure uint16 = 3
)

// ---- INPUT REGISTERS (detection) ----

// RegStatus holds the result of the last detection window.
const RegStatus = 0

const (
	StatusNoTag      uint16 = 0
	StatusTagPresent uint16 = 1
)

// RegUIDLength holds the UID length in bytes.
const RegUIDLength = 1

// RegUIDStart is the first of the UID registers, two bytes each, big-endian.
const RegUIDStart = 2

// UIDRegisters is the number of registers reserved for the UID.
const UIDRegisters = 5

// MaxUIDBytes is the longest UID the gateway reports (ISO 14443 triple size).
const MaxUIDBytes = UIDRegisters * 2

// detectionSpan covers status, length and UID in one read.
const detectionSpan = RegUIDStart + UIDRegisters

// ---- INPUT REGISTERS (identity) ----

// RegFirmware holds major<<8|minor, patch<<8|build.
const RegFirmware = 8

const firmwareRegisters = 2
