package constant

import "time"

// HTTPMaxAudios is the largest audio track count progressive HTTP delivery handles;
// above it the session may escalate to HLS.
const HTTPMaxAudios = 7

// TimeSyncInterval is the default cadence of resume checkpoint syncs.
const TimeSyncInterval = 30 * time.Second

// WatchStartOffset is the position, in seconds, marked when a movie is put on the watching list.
const WatchStartOffset = 30

// QualityOptions lists the selectable default quality tiers, highest first.
var QualityOptions = []string{"2160", "1080", "720", "480"}
