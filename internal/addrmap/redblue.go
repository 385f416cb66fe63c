package addrmap

import (
	"fmt"

	. "github.com/retroenv/memsnap/internal/schema"
	"github.com/retroenv/memsnap/internal/textcodec"
)

// record kind names.
const (
	Sprite            = "Sprite"
	Tile              = "Tile"
	Menu              = "Menu"
	Battle            = "Battle"
	PokemonMart       = "PokemonMart"
	NameRater         = "NameRater"
	Battle2           = "Battle2"
	Battle3           = "Battle3"
	BattlePokemon     = "BattlePokemon"
	Battle4           = "Battle4"
	BattleStatus      = "BattleStatus"
	GameCorner        = "GameCorner"
	Player            = "Player"
	Pokemon           = "Pokemon"
	PokedexCompletion = "PokedexCompletion"
	Inventory         = "Inventory"
	Badges            = "Badges"
	Location          = "Location"
	EventFlags        = "EventFlags"
	TilesetHeader     = "TilesetHeader"
)

// collection names.
const (
	Sprites = "sprites"
	Party   = "party"
)

// Red/Blue working memory region.
const (
	RedBlueRegionStart = 0xC000
	RedBlueRegionSize  = 0x2000
)

// RedBlue returns the address map of the Red/Blue game revisions.
func RedBlue() *Layout {
	return &Layout{
		Name:        "redblue",
		RegionStart: RedBlueRegionStart,
		RegionSize:  RedBlueRegionSize,
		Codec:       textcodec.Default,

		Singletons: []Placement{
			{Schema: tileSchema, Address: 0xC3A0},
			{Schema: menuSchema, Address: 0xCC24},
			{Schema: battleSchema, Address: 0xCCD5},
			{Schema: pokemonMartSchema, Address: 0xCF7B},
			{Schema: nameRaterSchema, Address: 0xCF92},
			{Schema: battle2Schema, Address: 0xCCDC},
			{Schema: battle3Schema, Address: 0xCFCC},
			{Schema: battlePokemonSchema, Address: 0xD009},
			{Schema: battle4Schema, Address: 0xD05A},
			{Schema: battleStatusSchema, Address: 0xD062},
			{Schema: gameCornerSchema, Address: 0xD13D},
			{Schema: playerSchema, Address: 0xD158},
			{Schema: pokedexCompletionSchema, Address: 0xD2F7},
			{Schema: inventorySchema, Address: 0xD31D},
			{Schema: badgesSchema, Address: 0xD356},
			{Schema: locationSchema, Address: 0xD35E},
			{Schema: eventFlagsSchema, Address: 0xD5A6},
			{Schema: tilesetHeaderSchema, Address: 0xD52B},
		},

		Sprites: Collection{
			Name:   Sprites,
			Schema: spriteSchema,
			Base:   0xC100,
			Stride: 0x10,
			Count:  16,
		},
		Party: Collection{
			Name:   Party,
			Schema: pokemonSchema,
			Base:   0xD16B,
			Stride: 0x2C,
			Count:  6,
		},
	}
}

// Sprite data is split into two tables 0x100 bytes apart, both indexed
// by the sprite slot.
var spriteSchema = MustNew(Sprite, false,
	U8("picture_id", 0x000),
	U8("movement_status", 0x001),
	U8("image_idx", 0x002),
	U8("y_screen_delta", 0x003),
	U8("y_screen_pos", 0x004),
	U8("x_screen_delta", 0x005),
	U8("x_screen_pos", 0x006),
	U8("intra_animation_frame_counter", 0x007),
	U8("animation_frame_counter", 0x008),
	U8("facing_direction", 0x009),
	U8("walk_animation_counter", 0x100),
	U8("y_displacement", 0x102),
	U8("x_displacement", 0x103),
	U8("y_position", 0x104),
	U8("x_position", 0x105),
	U8("movement_byte", 0x106),
	U8("in_grass", 0x107),
	U8("delay_until_next_movement", 0x108),
	U8("sprite_image_base_offset", 0x10E),
)

// C3A0 to C507 is the visible tile map, C508 to C5CF its copy buffer.
var tileSchema = MustNew(Tile, true,
	Buffer("onscreen_tiles", 0x000, 0x167),
	String("onscreen_text", 0x000, 0x167),
	Buffer("copy_buffer", 0x168, 0x0C7),
	String("copy_text", 0x168, 0x0C7),
	Buffer("total_buffer", 0x000, 0x22F),
)

var menuSchema = MustNew(Menu, true,
	U8("y_position", 0x000),
	U8("x_position", 0x001),
	U8("selected_item", 0x002),
	U8("hidden_tile", 0x003),
	U8("last_menu_tile_id", 0x004),
	U8("bitmask_key_port", 0x005),
	U8("id_prev_selected_item", 0x006),
	U8("last_cursor_position_party_bills_pc", 0x007),
	U8("last_cursor_position_item_screen", 0x008),
	U8("last_cursor_position_start_battle_menu", 0x009),
	U8("index_pokemon_active", 0x00A),
	U16("pointer_cursor_tile", 0x00B),
	U8("id_displayed_menu_item", 0x00D),
	U8("item_highlighted_select", 0x00E),
)

var battleSchema = MustNew(Battle, true,
	U8("number_of_turns", 0x00),
	U8("player_sub_hp", 0x02),
	U8("enemy_sub_hp", 0x03),
	U8("move_menu_type", 0x04),
	U8("player_selected_move", 0x05),
	U8("enemy_selected_move", 0x06),
	U24("payday_money", 0x10),
	U8("opponent_escape_factor", 0x13),
	U8("opponent_bait_factor", 0x14),
	U8("disobedient", 0x15),
	U8("enemy_disabled_move", 0x16),
	U8("player_disabled_move", 0x17),
	U8("low_health", 0x18),
	U16("bide_damage", 0x19),
	U8("pokemon_atk_mod", 0x45),
	U8("pokemon_def_mod", 0x46),
	U8("pokemon_spd_mod", 0x47),
	U8("pokemon_spc_mod", 0x48),
	U8("pokemon_acc_mod", 0x49),
	U8("pokemon_eva_mod", 0x4A),
	U8("engaged_trainer_class", 0x58),
	U8("enemy_atk_mod", 0x59),
	U8("enemy_def_mod", 0x5A),
	U8("enemy_spd_mod", 0x5B),
	U8("enemy_spc_mod", 0x5C),
	U8("enemy_acc_mod", 0x5D),
	U8("enemy_eva_mod", 0x5E),
)

var pokemonMartSchema = MustNew(PokemonMart, true, martFields()...)

func martFields() []Field {
	fields := []Field{U8("total_items", 0x00)}
	for i := uint32(1); i <= 10; i++ {
		fields = append(fields, U8(fmt.Sprintf("item_%d", i), i))
	}
	return fields
}

var nameRaterSchema = MustNew(NameRater, true,
	U8("target_pokemon", 0x00),
)

// Battle2 starts inside Battle, the move effect and type live 0x2F7
// bytes further.
var battle2Schema = MustNew(Battle2, true,
	U8("your_move_used", 0x000),
	U8("your_move_effect", 0x2F7),
	U8("your_move_type", 0x2F9),
)

var battle3Schema = MustNew(Battle3, true,
	U8("enemy_move_id", 0x000),
	U8("enemy_move_effect", 0x001),
	U8("enemy_move_power", 0x002),
	U8("enemy_move_type", 0x003),
	U8("enemy_move_accuracy", 0x004),
	U8("enemy_move_max_pp", 0x005),
	U8("player_move_id", 0x006),
	U8("player_move_effect", 0x007),
	U8("player_move_power", 0x008),
	U8("player_move_type", 0x009),
	U8("player_move_accuracy", 0x00A),
	U8("player_move_max_pp", 0x00B),
	U8("enemy_pokemon_id", 0x00C),
	U8("player_pokemon_id", 0x00D),
	String("enemy_name", 0x00E, 10),
	U8("enemy_pokemon_id2", 0x019),
	U16("enemy_hp", 0x01A),
	U8("enemy_level", 0x01C),
	U8("enemy_status", 0x01D),
	U8("enemy_type_1", 0x01E),
	U8("enemy_type_2", 0x01F),
	U8("enemy_catch_rate", 0x020),
	U8("enemy_move_1", 0x021),
	U8("enemy_move_2", 0x022),
	U8("enemy_move_3", 0x023),
	U8("enemy_move_4", 0x024),
	U8("enemy_atk_def_dvs", 0x025),
	U8("enemy_spd_spc_dvs", 0x026),
	U8("enemy_level2", 0x027),
	U16("enemy_max_hp", 0x028),
	U16("enemy_atk", 0x02A),
	U16("enemy_def", 0x02C),
	U16("enemy_spd", 0x02E),
	U16("enemy_spc", 0x030),
	U8("enemy_pp_1", 0x032),
	U8("enemy_pp_2", 0x033),
	U8("enemy_pp_3", 0x034),
	U8("enemy_pp_4", 0x035),
	Buffer("enemy_base_stats", 0x036, 5),
	U8("enemy_catch_rate2", 0x03B),
	U8("enemy_base_experience", 0x03C),
)

var battlePokemonSchema = MustNew(BattlePokemon, true,
	String("name", 0x000, 11),
	U8("number", 0x00B),
	U16("current_hp", 0x00C),
	U8("status", 0x00F),
	U8("type_1", 0x010),
	U8("type_2", 0x011),
	U8("move_1", 0x013),
	U8("move_2", 0x014),
	U8("move_3", 0x015),
	U8("move_4", 0x016),
	U8("atk_def_dvs", 0x017),
	U8("spd_spc_dvs", 0x018),
	U8("level", 0x019),
	U16("max_hp", 0x01A),
	U16("atk_", 0x01C),
	U16("def_", 0x01E),
	U16("spd_", 0x020),
	U16("spc_", 0x022),
	U8("pp_1", 0x024),
	U8("pp_2", 0x025),
	U8("pp_3", 0x026),
	U8("pp_4", 0x027),
)

var battle4Schema = MustNew(Battle4, true,
	U8("battle_type", 0x00),
	U8("critical_strike", 0x04),
)

var battleStatusSchema = MustNew(BattleStatus, true,
	Buffer("battle_status", 0x00, 3),
	U8("stat_to_double_cpu", 0x03),
	U8("stat_to_halve_cpu", 0x04),
	Buffer("battle_status_cpu", 0x05, 3),
	U8("player_multi_hit_move_counter", 0x08),
	U8("player_confusion_counter", 0x09),
	U8("player_toxic_counter", 0x0A),
	U16("player_disable_counter", 0x0B),
	U8("enemy_multi_hit_move_counter", 0x0D),
	U8("enemy_confusion_counter", 0x0E),
	U8("enemy_toxic_counter", 0x0F),
	U16("enemy_disable_counter", 0x10),
)

var gameCornerSchema = MustNew(GameCorner, true,
	U8("prize_1", 0x00),
	U8("prize_2", 0x01),
	U8("prize_3", 0x02),
)

// The party species list overlaps the party count, the offsets are kept
// as documented.
var playerSchema = MustNew(Player, true,
	String("name", 0x00, 10),
	U8("pokemon_in_party", 0x0B),
	U8("pokemon_1", 0x0C),
	U8("pokemon_2", 0x0D),
	U8("pokemon_3", 0x0E),
	U8("pokemon_4", 0x0F),
	U8("pokemon_5", 0x0A),
	U8("pokemon_6", 0x0B),
	U8("end_of_list_huh", 0x0D),
)

var pokemonSchema = MustNew(Pokemon, false,
	U8("pokemon", 0x00),
	U16("current_hp", 0x01),
	U8("int_level", 0x03),
	U8("status", 0x04),
	U8("type_1", 0x05),
	U8("type_2", 0x06),
	U8("catch_rate", 0x07),
	U8("move_1", 0x08),
	U8("move_2", 0x09),
	U8("move_3", 0x0A),
	U8("move_4", 0x0B),
	U16("trainer_id", 0x0C),
	U24("experience", 0x0E),
	U16("hp_ev", 0x11),
	U16("atk_ev", 0x13),
	U16("def_ev", 0x15),
	U16("spd_ev", 0x17),
	U16("spc_ev", 0x19),
	U8("atk_def_iv", 0x1B),
	U8("spd_spc_iv", 0x1C),
	U8("pp_move_1", 0x1D),
	U8("pp_move_2", 0x1E),
	U8("pp_move_3", 0x1F),
	U8("pp_move_4", 0x20),
	U8("level", 0x21),
	U16("max_hp", 0x22),
	U16("atk_", 0x24),
	U16("def_", 0x26),
	U16("spd_", 0x28),
	U16("spc_", 0x2A),
)

// One bit per species, caught flags first, then seen flags.
var pokedexCompletionSchema = MustNew(PokedexCompletion, true, pokedexFields()...)

func pokedexFields() []Field {
	const bytesPerList = 19

	fields := make([]Field, 0, 2*bytesPerList)
	for _, list := range []string{"caught", "seen"} {
		base := uint32(len(fields))
		for i := uint32(0); i < bytesPerList; i++ {
			label := fmt.Sprintf("%s_%d_%d", list, 8*i+1, 8*i+8)
			fields = append(fields, U8(label, base+i))
		}
	}
	return fields
}

var inventorySchema = MustNew(Inventory, true, inventoryFields()...)

func inventoryFields() []Field {
	const slots = 20

	fields := []Field{U8("total_items", 0x00)}
	for i := uint32(1); i <= slots; i++ {
		fields = append(fields,
			U8(fmt.Sprintf("id_item_%d", i), 2*i-1),
			U8(fmt.Sprintf("qty_item_%d", i), 2*i),
		)
	}
	return append(fields, U24("money", 0x2A))
}

var badgesSchema = MustNew(Badges, true,
	U8("badges", 0x00),
)

var locationSchema = MustNew(Location, true,
	U8("map_number", 0x00),
	U16("event_displacement", 0x01),
	U8("y_position", 0x03),
	U8("x_position", 0x04),
	U8("y_position2", 0x05),
	U8("x_position2", 0x06),
	U8("last_map_exit", 0x07),
)

var eventFlagsSchema = MustNew(EventFlags, true,
	Buffer("disappearing_sprites", 0x000, 31),
	U8("starters_back", 0x005),
	U8("have_town_map", 0x04D),
	U8("have_oaks_parcel", 0x067),
	U8("ss_anne_here", 0x15D),
	U8("fossilized_pokemon", 0x16A),
	U8("lapras_acquired", 0x188),
	U8("fought_giovanni", 0x1AB),
	U8("fought_brock", 0x1AF),
	U8("fought_misty", 0x1B8),
	U8("fought_surge", 0x1CD),
	U8("fought_erika", 0x1D6),
	U8("fought_articuno", 0x1DC),
	U8("fought_koga", 0x1EC),
	U8("fought_blaine", 0x1F4),
	U8("fought_sabrina", 0x20D),
	U8("fought_zapdos", 0x22E),
	U8("fought_snorlax_vermillion", 0x230),
	U8("fought_snorlax_celadon", 0x23A),
	U8("fought_moltres", 0x248),
)

var tilesetHeaderSchema = MustNew(TilesetHeader, true,
	U8("tileset_bank", 0x00),
	U16("pointer_to_blocks", 0x01),
	U16("pointer_to_gfx", 0x03),
	U16("pointer_to_collision_data", 0x05),
	Buffer("talking_over_tiles", 0x07, 3),
	U8("grass_tile", 0x0A),
)
