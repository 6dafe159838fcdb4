// Package redis is a store.CheckpointStore backed by github.com/redis/go-redis/v9.
//
// Each checkpoint is a JSON string under "<prefix>checkpoint:<id>". The IDs of a
// run are kept in the set "<prefix>run:<run id>:checkpoints", which List and Clear
// read. With a TTL both keys expire; List skips index entries whose checkpoint
// has already expired.
//
//	s := redis.NewRedisCheckpointStore(redis.RedisOptions{
//		Addr:   "localhost:6379",
//		Prefix: "transpile:",
//		TTL:    24 * time.Hour,
//	})
package redis
