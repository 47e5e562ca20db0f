package domain

import "time"

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
