package cpu

import (
	"github.com/klauspost/cpuid/v2"
)

// Info describes the processor the backend runs on.
type Info struct {
	Brand         string
	PhysicalCores int
	LogicalCores  int
	AVX2          bool
	AVX512        bool
	FMA           bool
	NEON          bool
}

// SIMD returns the widest vector extension available, or "scalar".
func (i Info) SIMD() string {
	switch {
	case i.AVX512:
		return "avx512"
	case i.AVX2 && i.FMA:
		return "avx2+fma"
	case i.AVX2:
		return "avx2"
	case i.NEON:
		return "neon"
	default:
		return "scalar"
	}
}

func detect() Info {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = "unknown cpu"
	}
	return Info{
		Brand:         brand,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		AVX2:          cpuid.CPU.Supports(cpuid.AVX2),
		AVX512:        cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
		FMA:           cpuid.CPU.Supports(cpuid.FMA3),
		NEON:          cpuid.CPU.Supports(cpuid.ASIMD),
	}
}
