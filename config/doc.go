// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML scene manifest used by the audsrc engine
// and command: audio output settings, logging, the asset list and the
// audio sources placed in the scene.
//
//	audio:
//	  sample_rate: 44100
//	  master_volume: 0.8
//	log:
//	  level: debug
//	assets:
//	  - {id: step, file: sfx/step.wav}
//	sources:
//	  - name: door
//	    assets: [step]
//	    position: {x: 3}
//	    distance_model: linear
//
// AUDSRC_MASTER_VOLUME (percent), AUDSRC_SAMPLE_RATE and AUDSRC_LOG_LEVEL
// override the file when it is read with Load.
package config
