/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "config")
	return cfg
}

func TestPersistLoad(t *testing.T) {
	cfg := testConfig(t)
	cfg.SiteID = 42
	cfg.Transport.Groups = []string{"224.10.10.10", "224.10.10.11"}
	require.NoError(t, cfg.Persist(false))

	loaded := NewDefaultConfig()
	loaded.filepath = cfg.filepath
	require.NoError(t, loaded.Load())

	if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("loaded config differs (-persisted +loaded):\n%s", diff)
	}
}

func TestPersistExisting(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	var existsErr ErrConfigFileExists
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, cfg.filepath, existsErr.Path)

	require.NoError(t, cfg.Persist(true))
}

func TestLoadMissingFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Load())
	// Defaults stay untouched.
	assert.Equal(t, uint16(DefaultSiteID), cfg.SiteID)
	assert.Contains(t, cfg.EntityTypes, "generic_ship_container_class_medium")
}

func TestDefaultEntityTypes(t *testing.T) {
	cfg := NewDefaultConfig()
	medium := cfg.EntityTypes["generic_ship_container_class_medium"]
	assert.Equal(t, uint8(1), medium.EntityKind)
	assert.Equal(t, uint8(3), medium.Domain)
	assert.Equal(t, uint8(61), medium.Category)
	small := cfg.EntityTypes["generic_ship_container_class_small"]
	assert.Equal(t, uint8(1), small.Subcategory)
	assert.Equal(t, uint8(3), small.Specific)
}
