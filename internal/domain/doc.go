// Package domain models university starting-salary records and the figures
// derived from them.
//
// # Data Source
//
// Records arrive as a JSON array prepared upstream (one object per university).
// Computer Science starting salaries are the authoritative figure. Canadian
// institutions are already normalized to USD; IsCanadian only drives a
// "(Converted from CAD)" annotation.
//
// # Engineering Estimates
//
// Most records carry no Engineering figure, so one is estimated from the CS
// salary (see [EstimateEngineeringSalary]):
//
//	engSalary override present      -> returned as-is
//	curated engineering school      -> round(cs * 0.98)
//	cs > 100000                     -> ratio in 0.90..0.95
//	70000 < cs <= 100000            -> ratio in 0.88..0.93
//	cs <= 70000                     -> ratio in 0.85..0.90
//
// The ratio inside a tier is picked by a 32-bit rolling hash of the name
// ([nameHash]). The hash wraps exactly like signed 32-bit arithmetic so that
// every view computing the estimate independently agrees on it, and so that
// golden fixtures produced by earlier releases keep matching.
//
// The estimate is not a statistical model. It only has to be stable and
// never exceed the CS figure.
//
// # Display Conventions
//
// Salaries map onto a nine-step colour scale (green = highest, red = lowest)
// via [SalaryColor], and are printed as whole US dollars via [FormatUSD].
package domain
