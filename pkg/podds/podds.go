package podds

/**
* Podds estimates the results of football matches from a competition's recent results.
* Team attack and defence strengths are measured against the competition average over a
* trailing window of played matches and turned into expected goals, which drive a Monte Carlo
* simulation of the match. A grid search tunes the window length and the betting cutoff
* against realised results.
 */

const (
	// DateLayout is the layout dates are stored and passed around in
	DateLayout = "2006-01-02"
	// Unplayed is the score sentinel for a match that has not been played
	Unplayed = -1
	// NotComputed is the value every prediction field takes when no prediction could be made
	NotComputed = -1.0
)
