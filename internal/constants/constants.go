package constants

import "time"

const MainUpdateInterval = time.Minute

const MinutesPerHour = 60
const HoursPerDay = 24
const MinutesPerDay = MinutesPerHour * HoursPerDay

const MinBrightness = 0
const MaxBrightness = 100

// segment duration thresholds (minutes) for how much detail a timeline block carries
const DetailFullMinutes = 30
const DetailAbbreviatedMinutes = 15

// records are serialised as absolute timestamps on this date, only hour/minute are meaningful
const RecordBaseYear = 2000

// device firmware endpoints
const DevicePathSetSchedule = "/set_schedule"
const DevicePathSchedules = "/schedules"
const DevicePathTime = "/time"
const DevicePathSyncTime = "/sync"
const DevicePathChannelOn = "/on"
const DevicePathChannelOff = "/off"
const DevicePathChannelBrightness = "/brightness"

// controllers report their clock in this layout, without a zone
const DeviceTimeLayout = "2006-01-02 15:04:05"

const DefaultPushInterval = 100 * time.Millisecond
const DefaultDeviceTimeout = 10 * time.Second

// apollod calls may wait on several device requests
const DefaultServerTimeout = 30 * time.Second

// directory (firebase realtime database) stream events
const DirectoryPathDevices = "/devices"
const DirectoryEventPut = "put"
const DirectoryEventPatch = "patch"
const DirectoryEventKeepAlive = "keep-alive"
