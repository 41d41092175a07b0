// Package scenario replays declared render cycles through
// gate.UseCustomCompareEffect on a real reactive.Owner and reports, per
// cycle, whether the effect ran.
//
// A scenario file lists the dependency list of each render and names a
// registered comparator:
//
//	name: tag-filter
//	comparator: unordered
//	cycles:
//	  - deps: [[a, b], 10]
//	  - deps: [[b, a], 10]   # same tags, suppressed
//	  - deps: [[b, c], 10]   # runs
//	  - deps: [[c, b], 10]
//	    panic: true          # comparator faults on this cycle
//
// Files are YAML or JSON and can be read from disk or from S3
// (s3://bucket/key).
package scenario
