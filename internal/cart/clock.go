package cart

import "time"

var timeNow = time.Now
