package benchmark

// Age-banded elite reference tables. Heights track elite-academy growth
// references; sprint speed is peak m/s over 30m; vertical jump is
// countermovement in cm; agility is a 5-10-5 shuttle in seconds.
type band struct {
	upperAge float64
	table    Benchmark
}

// bands must stay sorted ascending by upperAge; ForAge scans in order.
var bands = []band{
	{10, Benchmark{
		AgeBand:        "U10",
		HeightCM:       Percentiles{P95: 145, P75: 140, P50: 136, P25: 132},
		SprintSpeedMS:  Percentiles{P95: 5.9, P75: 5.5, P50: 5.2, P25: 4.9},
		VerticalJumpCM: Percentiles{P95: 28, P75: 24, P50: 21, P25: 18},
		AgilitySec:     Percentiles{P95: 5.6, P75: 5.9, P50: 6.2, P25: 6.5},
		OptimalBMI:     BMIRange{Min: 14.5, Max: 18.0},
	}},
	{11, Benchmark{
		AgeBand:        "U11",
		HeightCM:       Percentiles{P95: 151, P75: 146, P50: 141, P25: 137},
		SprintSpeedMS:  Percentiles{P95: 6.2, P75: 5.8, P50: 5.5, P25: 5.1},
		VerticalJumpCM: Percentiles{P95: 31, P75: 27, P50: 23, P25: 20},
		AgilitySec:     Percentiles{P95: 5.4, P75: 5.7, P50: 6.0, P25: 6.3},
		OptimalBMI:     BMIRange{Min: 14.8, Max: 18.5},
	}},
	{12, Benchmark{
		AgeBand:        "U12",
		HeightCM:       Percentiles{P95: 157, P75: 152, P50: 147, P25: 142},
		SprintSpeedMS:  Percentiles{P95: 6.5, P75: 6.1, P50: 5.7, P25: 5.4},
		VerticalJumpCM: Percentiles{P95: 34, P75: 30, P50: 26, P25: 22},
		AgilitySec:     Percentiles{P95: 5.2, P75: 5.5, P50: 5.8, P25: 6.1},
		OptimalBMI:     BMIRange{Min: 15.2, Max: 19.0},
	}},
	{13, Benchmark{
		AgeBand:        "U13",
		HeightCM:       Percentiles{P95: 164, P75: 158, P50: 153, P25: 148},
		SprintSpeedMS:  Percentiles{P95: 6.8, P75: 6.4, P50: 6.0, P25: 5.6},
		VerticalJumpCM: Percentiles{P95: 38, P75: 33, P50: 29, P25: 25},
		AgilitySec:     Percentiles{P95: 5.0, P75: 5.3, P50: 5.6, P25: 5.9},
		OptimalBMI:     BMIRange{Min: 15.6, Max: 19.5},
	}},
	{14, Benchmark{
		AgeBand:        "U14",
		HeightCM:       Percentiles{P95: 172, P75: 166, P50: 160, P25: 155},
		SprintSpeedMS:  Percentiles{P95: 7.2, P75: 6.7, P50: 6.3, P25: 5.9},
		VerticalJumpCM: Percentiles{P95: 43, P75: 38, P50: 33, P25: 29},
		AgilitySec:     Percentiles{P95: 4.8, P75: 5.1, P50: 5.4, P25: 5.7},
		OptimalBMI:     BMIRange{Min: 16.2, Max: 20.5},
	}},
	{15, Benchmark{
		AgeBand:        "U15",
		HeightCM:       Percentiles{P95: 178, P75: 172, P50: 167, P25: 162},
		SprintSpeedMS:  Percentiles{P95: 7.6, P75: 7.1, P50: 6.7, P25: 6.3},
		VerticalJumpCM: Percentiles{P95: 48, P75: 43, P50: 38, P25: 33},
		AgilitySec:     Percentiles{P95: 4.6, P75: 4.9, P50: 5.2, P25: 5.5},
		OptimalBMI:     BMIRange{Min: 17.0, Max: 21.5},
	}},
	{16, Benchmark{
		AgeBand:        "U16",
		HeightCM:       Percentiles{P95: 182, P75: 176, P50: 171, P25: 166},
		SprintSpeedMS:  Percentiles{P95: 7.9, P75: 7.4, P50: 7.0, P25: 6.6},
		VerticalJumpCM: Percentiles{P95: 52, P75: 47, P50: 42, P25: 37},
		AgilitySec:     Percentiles{P95: 4.5, P75: 4.7, P50: 5.0, P25: 5.3},
		OptimalBMI:     BMIRange{Min: 17.8, Max: 22.5},
	}},
	{17, Benchmark{
		AgeBand:        "U17",
		HeightCM:       Percentiles{P95: 185, P75: 179, P50: 174, P25: 169},
		SprintSpeedMS:  Percentiles{P95: 8.2, P75: 7.7, P50: 7.3, P25: 6.9},
		VerticalJumpCM: Percentiles{P95: 56, P75: 50, P50: 45, P25: 40},
		AgilitySec:     Percentiles{P95: 4.4, P75: 4.6, P50: 4.9, P25: 5.2},
		OptimalBMI:     BMIRange{Min: 18.5, Max: 23.0},
	}},
	{18, Benchmark{
		AgeBand:        "U18",
		HeightCM:       Percentiles{P95: 187, P75: 181, P50: 176, P25: 171},
		SprintSpeedMS:  Percentiles{P95: 8.4, P75: 7.9, P50: 7.5, P25: 7.1},
		VerticalJumpCM: Percentiles{P95: 59, P75: 53, P50: 48, P25: 43},
		AgilitySec:     Percentiles{P95: 4.3, P75: 4.5, P50: 4.8, P25: 5.1},
		OptimalBMI:     BMIRange{Min: 19.0, Max: 23.5},
	}},
}

// seniorBand covers every age at or above the last banded cutoff.
var seniorBand = Benchmark{
	AgeBand:        "Senior",
	HeightCM:       Percentiles{P95: 190, P75: 184, P50: 179, P25: 174},
	SprintSpeedMS:  Percentiles{P95: 8.8, P75: 8.3, P50: 7.9, P25: 7.4},
	VerticalJumpCM: Percentiles{P95: 64, P75: 58, P50: 52, P25: 46},
	AgilitySec:     Percentiles{P95: 4.2, P75: 4.4, P50: 4.6, P25: 4.9},
	OptimalBMI:     BMIRange{Min: 20.0, Max: 24.0},
}
