// Package match indexes experimental patterns against a dictionary of
// simulated patterns.
//
// PatternMatch compares every experimental pattern with every dictionary
// pattern using a similarity metric and keeps the n best matches per
// navigation point:
//
//	res, err := match.PatternMatch(ctx, scan, dict, "zncc", 5,
//	    match.WithSlices(10),
//	)
//	if err != nil {
//	    return err
//	}
//	idx, score := res.Best(0)
//
// Dictionaries opened from a chunkstore are lazy; combined with WithSlices
// the similarity array never has to fit in memory at once.
package match
