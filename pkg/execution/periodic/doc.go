/*
Package periodic submits functions to a thread pool on a cron schedule.

	pool := threadpool.New(2)
	defer pool.Close()

	r := periodic.New(pool.Executor())
	id, _ := r.Add("@every 30s", pollUpstream)
	r.Start()
	defer r.Stop()

	r.Remove(id)

The runner only handles timing; every scheduled function executes on the
pool's workers with the usual Post semantics and failure isolation.
*/
package periodic
