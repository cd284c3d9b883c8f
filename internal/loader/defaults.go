package loader

import "github.com/spf13/viper"

// setDefaults registers the schema default for every optional field. Keys
// absent from the environment file fall back to these values; this is
// field-level substitution, not a deep merge. Account-specific values (ARNs,
// account IDs, domains, repository coordinates) deliberately have no default
// and must come from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("vpc.cidr", "10.0.0.0/16")
	v.SetDefault("vpc.max_azs", 3)
	v.SetDefault("vpc.reserved_azs", 3)
	v.SetDefault("vpc.nat_gateways", 1)
	v.SetDefault("vpc.automatic_subnet_creation", true)

	v.SetDefault("database.backup_retention", 2)
	v.SetDefault("database.instance_reader", false)
	v.SetDefault("database.serverless_v2_min_capacity", 0.5)
	v.SetDefault("database.serverless_v2_max_capacity", 2.0)
	v.SetDefault("database.master_username", "postgres")

	v.SetDefault("backend.task_cpu", "500m")
	v.SetDefault("backend.task_memory", "512Mi")
	v.SetDefault("backend.desired_count", 1)
	v.SetDefault("backend.auto_scaling_min_capacity", 1)
	v.SetDefault("backend.auto_scaling_max_capacity", 5)
	v.SetDefault("backend.ecr_image_tag", "latest")

	v.SetDefault("frontend.certificate_provider", "acm")
}
