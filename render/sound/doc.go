// Package sound plays merge tones and end-of-game jingles with beep.
package sound
