package webperr

// StatusCode is a decoder status.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusOutOfMemory
	StatusInvalidParam
	StatusBitstreamError
	StatusUnsupportedFeature
	StatusSuspended
	StatusUserAbort
	StatusNotEnoughData
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusOutOfMemory:
		return "OUT_OF_MEMORY"
	case StatusInvalidParam:
		return "INVALID_PARAM"
	case StatusBitstreamError:
		return "BITSTREAM_ERROR"
	case StatusUnsupportedFeature:
		return "UNSUPPORTED_FEATURE"
	case StatusSuspended:
		return "SUSPENDED"
	case StatusUserAbort:
		return "USER_ABORT"
	case StatusNotEnoughData:
		return "NOT_ENOUGH_DATA"
	default:
		return "UNKNOWN"
	}
}

// EncodeStatus is an encoder status.
type EncodeStatus int

const (
	EncodeOK EncodeStatus = iota
	EncodeOutOfMemory
	EncodeBitstreamOutOfMemory
	EncodeNullParameter
	EncodeInvalidConfiguration
	EncodeBadDimension
	EncodePartition0Overflow
	EncodePartitionOverflow
	EncodeBadWrite
	EncodeFileTooBig
	EncodeUserAbort
)

func (c EncodeStatus) String() string {
	switch c {
	case EncodeOK:
		return "OK"
	case EncodeOutOfMemory:
		return "OUT_OF_MEMORY"
	case EncodeBitstreamOutOfMemory:
		return "BITSTREAM_OUT_OF_MEMORY"
	case EncodeNullParameter:
		return "NULL_PARAMETER"
	case EncodeInvalidConfiguration:
		return "INVALID_CONFIGURATION"
	case EncodeBadDimension:
		return "BAD_DIMENSION"
	case EncodePartition0Overflow:
		return "PARTITION0_OVERFLOW"
	case EncodePartitionOverflow:
		return "PARTITION_OVERFLOW"
	case EncodeBadWrite:
		return "BAD_WRITE"
	case EncodeFileTooBig:
		return "FILE_TOO_BIG"
	case EncodeUserAbort:
		return "USER_ABORT"
	default:
		return "UNKNOWN"
	}
}
