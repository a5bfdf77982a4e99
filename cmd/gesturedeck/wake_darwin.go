package main

import (
	"log"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// watchWake calls fn every time the system wakes from sleep.
func watchWake(fn func()) {
	sleepCh := notifier.GetInstance().Start()
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("System wake detected")
				fn()
			}
		}
	}()
}
