/*
Package resilience provides the circuit breaker guarding outbound HTTP.

# States

  - Closed: requests pass; failures are counted per Interval
  - Open: requests fail fast with ErrCircuitOpen until Timeout elapses
  - Half-Open: up to MaxRequests trial calls decide between Closed and Open

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                             Open

# Usage

	breaker := resilience.New("http", resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 5 },
	})

	resp, err := resilience.Do(breaker, func() (*resty.Response, error) {
		return req.Get(url)
	})
*/
package resilience
