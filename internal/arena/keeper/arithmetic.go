package keeper

import "fmt"

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// saturatingAdd clamps at the type's maximum instead of wrapping.
func saturatingAdd[T unsigned](a, b T) T {
	s := a + b
	if s < a {
		return ^T(0)
	}
	return s
}

func addUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a > ^uint64(0)-b {
		return 0, fmt.Errorf("%s overflows uint64", field)
	}
	return a + b, nil
}
